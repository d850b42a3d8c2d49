package metrics

const Namespace = "conspect_web"

const (
	BackendOperationHealth    = "health"
	BackendOperationSummarize = "summarize"
)

const (
	UploadOutcomeSuccess            = "success"
	UploadOutcomeInvalid            = "invalid"
	UploadOutcomeBackendUnavailable = "backend_unavailable"
	UploadOutcomeBackendError       = "backend_error"
	UploadOutcomeFailed             = "failed"
)

const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

const (
	LoginResultSuccess = "success"
	LoginResultError   = "error"
	LoginResultInvalid = "invalid"
)
