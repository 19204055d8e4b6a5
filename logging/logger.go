// file: logging/logger.go
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Bootstrap 初始化全局日志器，main 最先调用
func Bootstrap() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if os.Getenv("C88_DEBUG") != "" {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
