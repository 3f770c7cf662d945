package config

import "os"

func IsDebug() bool {
	return os.Getenv("LLAMAGATE_DEBUG") == "1"
}
