package codec

import "github.com/golang/snappy"

type snappyCodec struct{}

func (snappyCodec) Kind() Kind {
	return KindSnappy
}

func (snappyCodec) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (snappyCodec) Decompress(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}
