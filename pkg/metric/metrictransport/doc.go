// Package metrictransport 提供 metricexport.Transport 的两种实现：
// 基于 xrotate 滚动写入的 FileTransport，和用于测试/演示的
// MemoryTransport（§4.10）。
package metrictransport
