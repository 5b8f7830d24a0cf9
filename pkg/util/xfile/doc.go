// Package xfile 提供文件路径的安全检查与目录准备工具函数。
//
// 仅保留 metrickit 文件型传输（xtransport/xfile）所需的最小子集：
// 路径格式净化与父目录创建。不提供沙箱隔离语义，见 [SanitizePath] 的说明。
package xfile
