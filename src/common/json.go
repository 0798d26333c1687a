package common

import "github.com/bytedance/sonic"

func marshalJSON(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}
