package grpc

import (
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc/encoding"
)

// CodecName 註冊於 gRPC 的 content-subtype，請求以 application/grpc+json 傳送
const CodecName = "json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonCodec 以 JSON 編碼 gRPC 訊息，服務的請求與回應皆為一般 Go 結構
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
