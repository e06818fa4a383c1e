package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 预处理管线的错误全部属于调用方输入错误：在计算开始前被尽早检测，
// 组件自身不做恢复；每个阶段要么返回完整结果，要么原子地失败。
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_FRACTIONS", "RESPONSE_NOT_BINARY"）
	Message string // 错误消息
	Module  string // 模块名称（如 "partition", "treatment"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效

	// 管线阶段错误代码
	ErrorCodeInvalidFractions      = "INVALID_FRACTIONS"       // 切分比例非法
	ErrorCodeStratifyColumnMissing = "STRATIFY_COLUMN_MISSING" // 分层列缺失或含缺失值
	ErrorCodeEmptyFitData          = "EMPTY_FIT_DATA"          // 拟合集为空
	ErrorCodeEmptyEvalData         = "EMPTY_EVAL_DATA"         // 校验集为空
	ErrorCodeResponseNotBinary     = "RESPONSE_NOT_BINARY"     // 响应列不是 0/1
	ErrorCodeUnknownPredictor      = "UNKNOWN_PREDICTOR"       // 预测变量不存在
	ErrorCodePlanTypeMismatch      = "PLAN_TYPE_MISMATCH"      // 列类型与拟合时不一致
	ErrorCodeCutoffOutOfRange      = "CUTOFF_OUT_OF_RANGE"     // 相关性阈值越界
)

// 模块名称常量
const (
	ModuleDataset    = "dataset"    // 数据集模块
	ModulePartition  = "partition"  // 切分模块
	ModuleRelevance  = "relevance"  // 相关性过滤模块
	ModuleTreatment  = "treatment"  // 编码/处理计划模块
	ModuleRedundancy = "redundancy" // 冗余消除模块
	ModuleStore      = "store"      // 存储模块
	ModulePipeline   = "pipeline"   // 管线模块
)

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsInvalidFractions 检查错误是否为 INVALID_FRACTIONS。
func IsInvalidFractions(err error) bool { return hasCode(err, ErrorCodeInvalidFractions) }

// IsStratifyColumnMissing 检查错误是否为 STRATIFY_COLUMN_MISSING。
func IsStratifyColumnMissing(err error) bool { return hasCode(err, ErrorCodeStratifyColumnMissing) }

// IsEmptyFitData 检查错误是否为 EMPTY_FIT_DATA。
func IsEmptyFitData(err error) bool { return hasCode(err, ErrorCodeEmptyFitData) }

// IsEmptyEvalData 检查错误是否为 EMPTY_EVAL_DATA。
func IsEmptyEvalData(err error) bool { return hasCode(err, ErrorCodeEmptyEvalData) }

// IsResponseNotBinary 检查错误是否为 RESPONSE_NOT_BINARY。
func IsResponseNotBinary(err error) bool { return hasCode(err, ErrorCodeResponseNotBinary) }

// IsUnknownPredictor 检查错误是否为 UNKNOWN_PREDICTOR。
func IsUnknownPredictor(err error) bool { return hasCode(err, ErrorCodeUnknownPredictor) }

// IsPlanTypeMismatch 检查错误是否为 PLAN_TYPE_MISMATCH。
func IsPlanTypeMismatch(err error) bool { return hasCode(err, ErrorCodePlanTypeMismatch) }

// IsCutoffOutOfRange 检查错误是否为 CUTOFF_OUT_OF_RANGE。
func IsCutoffOutOfRange(err error) bool { return hasCode(err, ErrorCodeCutoffOutOfRange) }

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }
