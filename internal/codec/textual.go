package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"coldsign-sol/internal/logic/domain"
)

// Encoding 表示交易文本表示的编码方案。
type Encoding string

const (
	EncodingAuto   Encoding = "auto"
	EncodingJSON   Encoding = "json"
	EncodingBase64 Encoding = "base64"
	EncodingBase58 Encoding = "base58"
)

// ParseEncoding 解析编码提示字符串，空串按 auto 处理。
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "json":
		return EncodingJSON, nil
	case "base64":
		return EncodingBase64, nil
	case "base58":
		return EncodingBase58, nil
	default:
		return "", fmt.Errorf("%w: unknown encoding hint %q", ErrUnrecognizedEncoding, s)
	}
}

// DecodeText 将文本输入解码为交易。
// auto 模式按 JSON → base64 → base58 顺序尝试，取第一个完整消费输入的
// 成功解析；部分消费视为失败。
func DecodeText(input []byte, hint Encoding) (*domain.Transaction, Encoding, error) {
	switch hint {
	case EncodingJSON:
		tx, err := decodeJSON(input)
		return tx, EncodingJSON, err
	case EncodingBase64:
		tx, err := decodeBase64(input)
		return tx, EncodingBase64, err
	case EncodingBase58:
		tx, err := decodeBase58(input)
		return tx, EncodingBase58, err
	case EncodingAuto, "":
		if tx, err := decodeJSON(input); err == nil {
			return tx, EncodingJSON, nil
		}
		if tx, err := decodeBase64(input); err == nil {
			return tx, EncodingBase64, nil
		}
		if tx, err := decodeBase58(input); err == nil {
			return tx, EncodingBase58, nil
		}
		return nil, "", ErrUnrecognizedEncoding
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnrecognizedEncoding, hint)
	}
}

// EncodeText 将交易编码为指定文本表示。
// base64/base58 直接作用于规范二进制编码；json 使用结构化 DTO。
func EncodeText(tx *domain.Transaction, format Encoding, pretty bool) (string, error) {
	switch format {
	case EncodingJSON:
		ui := ToUiTransaction(tx)
		var (
			out []byte
			err error
		)
		if pretty {
			out, err = json.MarshalIndent(ui, "", "  ")
		} else {
			out, err = json.Marshal(ui)
		}
		if err != nil {
			return "", fmt.Errorf("failed to marshal transaction json: %w", err)
		}
		return string(out), nil
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(EncodeTransaction(tx)), nil
	case EncodingBase58:
		return base58.Encode(EncodeTransaction(tx)), nil
	default:
		return "", fmt.Errorf("%w: output format %q", ErrUnrecognizedEncoding, format)
	}
}

// decodeJSON 要求输入为携带 message 字段的 JSON 对象，且整体恰为一个 JSON 值。
func decodeJSON(input []byte) (*domain.Transaction, error) {
	dec := json.NewDecoder(bytes.NewReader(input))

	var ui UiTransaction
	if err := dec.Decode(&ui); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedEncoding, err)
	}
	// 输入整体必须恰为一个 JSON 值
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing json content", ErrUnrecognizedEncoding)
	}
	// message.accountKeys 缺失时视为无关 JSON 对象而非交易
	if ui.Message.AccountKeys == nil {
		return nil, fmt.Errorf("%w: json object lacks transaction message", ErrUnrecognizedEncoding)
	}
	return ui.ToTransaction()
}

func decodeBase64(input []byte) (*domain.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(input)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedEncoding, err)
	}
	return DecodeTransaction(raw)
}

func decodeBase58(input []byte) (*domain.Transaction, error) {
	raw, err := base58.Decode(strings.TrimSpace(string(input)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedEncoding, err)
	}
	return DecodeTransaction(raw)
}
