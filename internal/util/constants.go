package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimePDF          = "application/pdf"
	MimeOctetStream  = "application/octet-stream"
	MaxPDFSize       = 10 << 20
	PDFStoragePrefix = "pdfs/"
)

// 管理后台鉴权
const (
	AdminSecretHeader = "x-admin-secret"
	AdminSecretQuery  = "secret"
	RoleAdmin         = "admin"
)
