package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"match-engine-go/internal/config"
	"match-engine-go/internal/logger"
	"match-engine-go/internal/storage/models"
	"match-engine-go/internal/tracing"
	"match-engine-go/internal/types"
)

var mysqlTracer = otel.Tracer("match-engine-go/storage/mysql")

// ErrRecordNotFound 统一暴露的"记录不存在"错误，屏蔽GORM细节
var ErrRecordNotFound = gorm.ErrRecordNotFound

// GormTracingPlugin GORM插件，为数据库操作补充OpenTelemetry追踪点
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

type gormSpanKey struct{}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	// GORM的Before/After返回未导出的*callback类型，无法在接口中命名，
	// 故以方法值形式保存其Register以便表驱动注册
	wrap := func(c interface {
		Register(string, func(*gorm.DB)) error
	}) func(string, func(*gorm.DB)) error {
		return c.Register
	}
	registrations := []struct {
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
		op     string
	}{
		{wrap(cb.Create().Before("gorm:create")), wrap(cb.Create().After("gorm:create")), "CREATE"},
		{wrap(cb.Query().Before("gorm:query")), wrap(cb.Query().After("gorm:query")), "SELECT"},
		{wrap(cb.Update().Before("gorm:update")), wrap(cb.Update().After("gorm:update")), "UPDATE"},
		{wrap(cb.Delete().Before("gorm:delete")), wrap(cb.Delete().After("gorm:delete")), "DELETE"},
		{wrap(cb.Raw().Before("gorm:raw")), wrap(cb.Raw().After("gorm:raw")), "RAW"},
	}
	for _, r := range registrations {
		if err := r.before("otel:before_"+r.op, p.before(r.op)); err != nil {
			return err
		}
		if err := r.after("otel:after_"+r.op, p.after()); err != nil {
			return err
		}
	}
	return nil
}

// before 在GORM操作前开启span并挂到语句上下文
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}
		ctx, span := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			))
		db.Statement.Context = context.WithValue(ctx, gormSpanKey{}, span)
	}
}

// after 在GORM操作后记录错误并结束span
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()
		if sql := db.Statement.SQL.String(); sql != "" {
			span.SetAttributes(attribute.String("db.statement", tracing.SafeSQL(sql)))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			tracing.RecordError(span, db.Error, tracing.ErrorTypeDB)
			return
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		span.SetStatus(codes.Ok, "")
	}
}

// MySQL 封装GORM连接，实现引擎的档案/岗位/市场数据/快照四个端口
type MySQL struct {
	db     *gorm.DB
	config *config.MySQLConfig
}

// NewMySQL 建立MySQL连接并注册追踪插件
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mysql config 不能为空")
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.LogLevel(cfg.LogLevel)),
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	if err := db.Use(&GormTracingPlugin{tracer: mysqlTracer, dbName: cfg.Database}); err != nil {
		return nil, fmt.Errorf("注册GORM追踪插件失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	return &MySQL{db: db, config: cfg}, nil
}

// DB 暴露底层GORM实例，供迁移脚本使用
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// AutoMigrate 建表/更新表结构
func (m *MySQL) AutoMigrate() error {
	return m.db.AutoMigrate(
		&models.Candidate{},
		&models.Organization{},
		&models.Job{},
		&models.JobMarketStats{},
		&models.OrgResponsiveness{},
		&models.MatchSnapshot{},
	)
}

// Close 关闭底层连接池
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetCandidateProfile 读取候选人原始档案并转换为引擎类型
func (m *MySQL) GetCandidateProfile(ctx context.Context, candidateID string) (*types.CandidateProfile, error) {
	var row models.Candidate
	if err := m.db.WithContext(ctx).First(&row, "candidate_id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("候选人 %s 不存在: %w", candidateID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("查询候选人档案失败: %w", err)
	}

	profile := &types.CandidateProfile{
		CandidateID:       row.CandidateID,
		Name:              row.Name,
		YearsOfExperience: row.YearsOfExperience,
		Location:          types.Location{City: row.City, Region: row.Region},
		SalaryExpectation: types.SalaryRange{Min: row.SalaryExpectMin, Max: row.SalaryExpectMax},
		RiskTolerance:     types.RiskTolerance(row.RiskTolerance),
	}
	// JSON列损坏时保留零值继续，不让单列坏数据拖垮整个档案
	unmarshalJSONColumn(row.SkillsJSON, &profile.Skills)
	unmarshalJSONColumn(row.EducationJSON, &profile.Education)
	unmarshalJSONColumn(row.IndustryYearsJSON, &profile.IndustryYears)

	logger.Debug().
		Str("candidate_id", row.CandidateID).
		Str("candidate_name", tracing.SafeAttributeValue("candidate.name", row.Name, tracing.DefaultMaxLength)).
		Msg("候选人档案加载完成")
	return profile, nil
}

// GetCandidateCV 读取候选人CV文本；没有时返回空串
func (m *MySQL) GetCandidateCV(ctx context.Context, candidateID string) (string, error) {
	var cvText string
	err := m.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("candidate_id = ?", candidateID).
		Pluck("cv_text", &cvText).Error
	if err != nil {
		return "", fmt.Errorf("读取CV文本失败: %w", err)
	}
	return cvText, nil
}

// GetJobs 按过滤条件拉取活跃岗位池（含组织信息）
func (m *MySQL) GetJobs(ctx context.Context, filter types.JobFilter) ([]*types.JobPosting, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = m.config.DefaultJobLimit
	}

	query := m.db.WithContext(ctx).
		Preload("Organization").
		Where("status = ?", "ACTIVE").
		Order("job_id").
		Limit(limit)
	if len(filter.JobIDs) > 0 {
		query = query.Where("job_id IN ?", filter.JobIDs)
	}
	if len(filter.Industries) > 0 {
		query = query.Joins("JOIN organizations ON organizations.org_id = jobs.org_id").
			Where("organizations.industry IN ?", filter.Industries)
	}

	var rows []models.Job
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询岗位池失败: %w", err)
	}

	jobs := make([]*types.JobPosting, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, jobRowToPosting(&rows[i]))
	}
	return jobs, nil
}

// jobRowToPosting 把岗位表行转换为引擎类型
func jobRowToPosting(row *models.Job) *types.JobPosting {
	posting := &types.JobPosting{
		JobID: row.JobID,
		Title: row.Title,
		Experience: types.ExperienceRange{
			MinYears: row.ExperienceMinYears,
			MaxYears: row.ExperienceMaxYears,
		},
		EducationRequirement: row.EducationRequirement,
		Location:             types.Location{City: row.City, Region: row.Region},
		Remote:               row.Remote,
		Salary:               types.SalaryRange{Min: row.SalaryMin, Max: row.SalaryMax},
		Description:          row.Description,
		Requirements:         row.Requirements,
		Organization: types.Organization{
			OrgID:    row.Organization.OrgID,
			Name:     row.Organization.Name,
			Industry: row.Organization.Industry,
			Size:     types.OrgSizeBucket(row.Organization.Size),
		},
	}
	unmarshalJSONColumn(row.RequiredSkillsJSON, &posting.RequiredSkills)
	unmarshalJSONColumn(row.PreferredSkillsJSON, &posting.PreferredSkills)
	return posting
}

// CompetitionEstimate 读取岗位竞争度聚合；无记录视为信号不可用
func (m *MySQL) CompetitionEstimate(ctx context.Context, _ string, jobID string) (float64, error) {
	var stats models.JobMarketStats
	if err := m.db.WithContext(ctx).First(&stats, "job_id = ?", jobID).Error; err != nil {
		return 0, fmt.Errorf("岗位市场统计不可用: %w", err)
	}
	return stats.CompetitionEstimate, nil
}

// HistoricalSuccessRate 读取历史成功率聚合
func (m *MySQL) HistoricalSuccessRate(ctx context.Context, _ string, jobID string) (float64, error) {
	var stats models.JobMarketStats
	if err := m.db.WithContext(ctx).First(&stats, "job_id = ?", jobID).Error; err != nil {
		return 0, fmt.Errorf("岗位市场统计不可用: %w", err)
	}
	return stats.HistoricalSuccessRate, nil
}

// OrgResponsiveness 读取组织响应度聚合
func (m *MySQL) OrgResponsiveness(ctx context.Context, orgID string) (float64, error) {
	var row models.OrgResponsiveness
	if err := m.db.WithContext(ctx).First(&row, "org_id = ?", orgID).Error; err != nil {
		return 0, fmt.Errorf("组织响应度统计不可用: %w", err)
	}
	return row.Score, nil
}

// snapshotEntry 快照中单条结果的紧凑表示
type snapshotEntry struct {
	JobID              string  `json:"job_id"`
	OverallScore       float64 `json:"overall_score"`
	SuccessProbability float64 `json:"success_probability"`
	Priority           string  `json:"priority"`
}

// SaveMatchSnapshot 持久化一次匹配运行的紧凑快照
func (m *MySQL) SaveMatchSnapshot(ctx context.Context, runID, candidateID, engineVersion string, results []*types.MatchResult) error {
	entries := make([]snapshotEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, snapshotEntry{
			JobID:              r.JobID,
			OverallScore:       r.OverallScore,
			SuccessProbability: r.SuccessProbability,
			Priority:           string(r.Priority),
		})
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	snapshot := models.MatchSnapshot{
		RunID:         runID,
		CandidateID:   candidateID,
		EngineVersion: engineVersion,
		ResultsJSON:   datatypes.JSON(payload),
	}
	if err := m.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return fmt.Errorf("写入匹配快照失败: %w", err)
	}
	return nil
}

// unmarshalJSONColumn 反序列化JSON列，失败时保留目标零值
func unmarshalJSONColumn(raw datatypes.JSON, target interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, target)
}
