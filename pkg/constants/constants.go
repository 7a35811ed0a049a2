package constants

const (
	CHANNEL_SIZE  = 100 // 单个连接的发送缓冲区大小
	REDIS_TIMEOUT = 1   // redis timeout (分钟)
)
