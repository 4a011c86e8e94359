package common

import "fmt"

func RedisKeyLoginNonce(address string) string {
	return fmt.Sprintf("loginnonce:%s", address)
}
