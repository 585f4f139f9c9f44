package codec

import (
	"encoding/base64"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncoding(t *testing.T) {
	for input, want := range map[string]Encoding{
		"":        EncodingAuto,
		"auto":    EncodingAuto,
		"JSON":    EncodingJSON,
		"base64":  EncodingBase64,
		" base58": EncodingBase58,
	} {
		got, err := ParseEncoding(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseEncoding("hex")
	assert.ErrorIs(t, err, ErrUnrecognizedEncoding)
}

func TestDecodeTextAutoDetect(t *testing.T) {
	tx := legacyTxFixture()
	raw := EncodeTransaction(tx)

	cases := map[string]struct {
		input string
		want  Encoding
	}{
		"base64": {base64.StdEncoding.EncodeToString(raw), EncodingBase64},
		"base58": {base58.Encode(raw), EncodingBase58},
	}
	jsonText, err := EncodeText(tx, EncodingJSON, false)
	require.NoError(t, err)
	cases["json"] = struct {
		input string
		want  Encoding
	}{jsonText, EncodingJSON}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			decoded, detected, err := DecodeText([]byte(tc.input), EncodingAuto)
			require.NoError(t, err)
			assert.Equal(t, tc.want, detected)
			// 三种文本形式必须解出同一笔交易
			assert.Equal(t, raw, EncodeTransaction(decoded))
		})
	}
}

func TestDecodeTextExplicitHint(t *testing.T) {
	tx := v0TxFixture()
	raw := EncodeTransaction(tx)
	b64 := base64.StdEncoding.EncodeToString(raw)

	decoded, detected, err := DecodeText([]byte(b64), EncodingBase64)
	require.NoError(t, err)
	assert.Equal(t, EncodingBase64, detected)
	assert.Equal(t, raw, EncodeTransaction(decoded))

	// 提示与实际编码不符时直接失败，不回退 auto
	_, _, err = DecodeText([]byte(b64), EncodingJSON)
	assert.Error(t, err)
}

func TestDecodeTextSurroundingWhitespace(t *testing.T) {
	tx := legacyTxFixture()
	raw := EncodeTransaction(tx)
	input := "\n  " + base64.StdEncoding.EncodeToString(raw) + "  \n"

	decoded, _, err := DecodeText([]byte(input), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, raw, EncodeTransaction(decoded))
}

func TestDecodeTextRejectsPartialConsumption(t *testing.T) {
	tx := legacyTxFixture()
	raw := EncodeTransaction(tx)

	// 合法交易字节再补一个尾字节：base64 可解码但交易解码剩余字节
	padded := base64.StdEncoding.EncodeToString(append(raw, 0x00))
	_, _, err := DecodeText([]byte(padded), EncodingAuto)
	assert.Error(t, err)

	// 两个 JSON 值拼接：首个值之后仍有内容
	jsonText, err := EncodeText(tx, EncodingJSON, false)
	require.NoError(t, err)
	_, _, err = DecodeText([]byte(jsonText+jsonText), EncodingAuto)
	assert.Error(t, err)
}

func TestDecodeTextRejectsIrrelevantJSON(t *testing.T) {
	// 合法 JSON 但不是交易对象
	_, _, err := DecodeText([]byte(`{"foo": 1}`), EncodingAuto)
	assert.ErrorIs(t, err, ErrUnrecognizedEncoding)
}

func TestEncodeTextRoundTrip(t *testing.T) {
	tx := v0TxFixture()
	raw := EncodeTransaction(tx)

	for _, format := range []Encoding{EncodingJSON, EncodingBase64, EncodingBase58} {
		out, err := EncodeText(tx, format, false)
		require.NoError(t, err, "format %s", format)

		decoded, detected, err := DecodeText([]byte(out), format)
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, format, detected)
		assert.Equal(t, raw, EncodeTransaction(decoded), "format %s", format)
	}
}
