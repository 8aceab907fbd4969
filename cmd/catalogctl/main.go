// catalogctl 图书目录命令行工具
// 直接操作数据库,与HTTP服务共用同一套用例
package main

import (
	"os"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

func main() {
	if err := newRootCmd(config.LoadFrom, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
