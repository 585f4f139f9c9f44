package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/zeromicro/go-zero/core/conf"

	"coldsign-sol/internal/codec"
	"coldsign-sol/internal/config"
	"coldsign-sol/internal/logic/analyzer"
	"coldsign-sol/internal/logic/analyzer/lightprotocol"
	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/logic/keygen"
	"coldsign-sol/internal/logic/resolver"
	"coldsign-sol/internal/logic/signer"
	"coldsign-sol/internal/types"
	"coldsign-sol/pkg/logger"
)

// loadCliConfig 读取可选配置文件并初始化日志。
// 未给配置文件时使用内置默认值，flag 始终优先于配置文件。
func loadCliConfig(c *cli.Context) (*config.CliConfig, error) {
	cfg := &config.CliConfig{OutputFormat: "json"}
	if path := c.String("config"); path != "" {
		if err := conf.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	if err := logger.InitLogger(cfg.LogConf.ToLogOption()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readTransactionInput 从首个位置参数指定的文件读取交易文本，
// 参数缺省或为 "-" 时读取 stdin。
func readTransactionInput(c *cli.Context) ([]byte, error) {
	path := c.Args().First()
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction file: %w", err)
	}
	return data, nil
}

func decodeInput(c *cli.Context) (*domain.Transaction, codec.Encoding, error) {
	input, err := readTransactionInput(c)
	if err != nil {
		return nil, "", err
	}
	hint, err := codec.ParseEncoding(c.String("encoding"))
	if err != nil {
		return nil, "", err
	}
	return codec.DecodeText(input, hint)
}

// loadTables 读取查找表快照。交易引用了查找表而快照缺失时报错。
func loadTables(c *cli.Context, cfg *config.CliConfig, tx *domain.Transaction) (resolver.Tables, error) {
	path := c.String("tables")
	if path == "" {
		path = cfg.TablesFile
	}
	if path == "" {
		if len(tx.Message.Lookups) > 0 {
			return nil, fmt.Errorf("transaction references %d lookup tables but no --tables snapshot was given", len(tx.Message.Lookups))
		}
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup tables: %w", err)
	}
	return resolver.ParseTables(data)
}

func maxFeeFlagValue(c *cli.Context, cfg *config.CliConfig) uint64 {
	if c.IsSet("max-fee") {
		return c.Uint64("max-fee")
	}
	return cfg.AnalyzerConf.MaxFeeLamports
}

func defaultRegistry() *analyzer.Registry {
	reg := analyzer.NewRegistry()
	reg.Register(lightprotocol.New())
	return reg
}

func encodingFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "encoding",
		Aliases: []string{"e"},
		Value:   "auto",
		Usage:   "Input encoding: auto, json, base64 or base58",
	}
}

func tablesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "tables",
		Aliases: []string{"t"},
		Usage:   "Address lookup table snapshot (JSON file)",
		EnvVars: []string{"COLDSIGN_TABLES"},
	}
}

func maxFeeFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  "max-fee",
		Usage: "Reject when estimated fee exceeds this many lamports (0 = no limit)",
	}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Indent JSON output",
		Value: true,
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a transaction and print its JSON representation",
		ArgsUsage: "[FILE]",
		Flags:     []cli.Flag{encodingFlag(), prettyFlag()},
		Action: func(c *cli.Context) error {
			if _, err := loadCliConfig(c); err != nil {
				return err
			}
			tx, detected, err := decodeInput(c)
			if err != nil {
				return err
			}
			logger.Debugf("decoded %s transaction (%s input)", tx.Message.Version, detected)

			out, err := codec.EncodeText(tx, codec.EncodingJSON, c.Bool("pretty"))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Re-encode a transaction into another textual representation",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			encodingFlag(),
			prettyFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output encoding: json, base64 or base58",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadCliConfig(c)
			if err != nil {
				return err
			}
			tx, _, err := decodeInput(c)
			if err != nil {
				return err
			}

			format := c.String("output")
			if format == "" {
				format = cfg.OutputFormat
			}
			enc, err := codec.ParseEncoding(format)
			if err != nil {
				return err
			}
			if enc == codec.EncodingAuto {
				return fmt.Errorf("output encoding must be explicit, got %q", format)
			}

			out, err := codec.EncodeText(tx, enc, c.Bool("pretty"))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a transaction: fees, balance impact and privacy classification",
		ArgsUsage: "[FILE]",
		Flags:     []cli.Flag{encodingFlag(), tablesFlag(), maxFeeFlag(), prettyFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadCliConfig(c)
			if err != nil {
				return err
			}
			tx, _, err := decodeInput(c)
			if err != nil {
				return err
			}
			tables, err := loadTables(c, cfg, tx)
			if err != nil {
				return err
			}
			resolved, err := resolver.Resolve(tx, tables)
			if err != nil {
				return err
			}

			summary, err := analyzer.Analyze(tx, resolved, defaultRegistry(), maxFeeFlagValue(c, cfg))
			if err != nil {
				return err
			}
			return printJSON(toUiSummary(summary), c.Bool("pretty"))
		},
	}
}

func signCommand() *cli.Command {
	return &cli.Command{
		Name:      "sign-tx",
		Usage:     "Sign a transaction offline and print the signed result",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			encodingFlag(),
			tablesFlag(),
			maxFeeFlag(),
			prettyFlag(),
			&cli.StringFlag{
				Name:    "key-file",
				Aliases: []string{"k"},
				Usage:   "Key material file: keypair JSON array, base58 keypair or base58 seed",
				EnvVars: []string{"COLDSIGN_KEY_FILE"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "base64",
				Usage:   "Output encoding for the signed transaction: json, base64 or base58",
			},
			&cli.BoolFlag{
				Name:  "summary-json",
				Usage: "Wrap output in a JSON object that also carries the analysis summary",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadCliConfig(c)
			if err != nil {
				return err
			}
			keyPath := c.String("key-file")
			if keyPath == "" {
				return fmt.Errorf("--key-file is required")
			}
			keyData, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("failed to read key file: %w", err)
			}
			key, err := signer.ParseKeyMaterial(string(keyData))
			if err != nil {
				return err
			}

			tx, _, err := decodeInput(c)
			if err != nil {
				return err
			}
			tables, err := loadTables(c, cfg, tx)
			if err != nil {
				return err
			}
			resolved, err := resolver.Resolve(tx, tables)
			if err != nil {
				return err
			}

			// 签名前先分析：费用超限时拒绝签名
			summary, err := analyzer.Analyze(tx, resolved, defaultRegistry(), maxFeeFlagValue(c, cfg))
			if err != nil {
				return err
			}

			slot, err := signer.Sign(tx, key)
			if err != nil {
				return err
			}
			logger.Infof("signed slot %d of %d, fully signed: %v",
				slot, tx.Message.Header.NumRequiredSignatures, tx.IsFullySigned())

			enc, err := codec.ParseEncoding(c.String("output"))
			if err != nil {
				return err
			}
			out, err := codec.EncodeText(tx, enc, c.Bool("pretty"))
			if err != nil {
				return err
			}

			if !c.Bool("summary-json") {
				fmt.Println(out)
				return nil
			}
			return printJSON(map[string]interface{}{
				"transaction":    out,
				"encoding":       string(enc),
				"signature_slot": slot,
				"fully_signed":   tx.IsFullySigned(),
				"summary":        toUiSummary(summary),
			}, c.Bool("pretty"))
		},
	}
}

// verifyRawSignature 校验 base58 签名 + 公钥对任意消息字节是否有效。
func verifyRawSignature(message []byte, sigB58, pubB58 string) (bool, error) {
	sig, err := types.TrySignatureFromBase58(sigB58)
	if err != nil {
		return false, err
	}
	pub, err := types.TryPubkeyFromBase58(pubB58)
	if err != nil {
		return false, err
	}
	return signer.Verify(message, sig, pub), nil
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Verify a transaction's signature slots, or a raw signature against arbitrary message bytes",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			encodingFlag(),
			prettyFlag(),
			&cli.StringFlag{
				Name:  "signature",
				Usage: "Raw mode: base58 signature to check against the input bytes",
			},
			&cli.StringFlag{
				Name:  "pubkey",
				Usage: "Raw mode: base58 public key the signature must verify under",
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := loadCliConfig(c); err != nil {
				return err
			}

			// 裸签名模式：输入即消息字节，不做交易解码
			sigB58, pubB58 := c.String("signature"), c.String("pubkey")
			if sigB58 != "" || pubB58 != "" {
				if sigB58 == "" || pubB58 == "" {
					return fmt.Errorf("raw verification needs both --signature and --pubkey")
				}
				message, err := readTransactionInput(c)
				if err != nil {
					return err
				}
				valid, err := verifyRawSignature(message, sigB58, pubB58)
				if err != nil {
					return err
				}
				if err := printJSON(map[string]interface{}{"valid": valid}, c.Bool("pretty")); err != nil {
					return err
				}
				if !valid {
					return cli.Exit("", 1)
				}
				return nil
			}

			tx, _, err := decodeInput(c)
			if err != nil {
				return err
			}

			results, allValid := signer.VerifyTransaction(tx)
			signers := tx.RequiredSigners()

			type slotResult struct {
				Slot      int    `json:"slot"`
				Signer    string `json:"signer,omitempty"`
				Populated bool   `json:"populated"`
				Valid     bool   `json:"valid"`
			}
			slots := make([]slotResult, len(results))
			for i, valid := range results {
				slots[i] = slotResult{
					Slot:      i,
					Populated: !tx.Signatures[i].IsZero(),
					Valid:     valid,
				}
				if i < len(signers) {
					slots[i].Signer = signers[i].String()
				}
			}

			if err := printJSON(map[string]interface{}{
				"all_valid": allValid,
				"slots":     slots,
			}, c.Bool("pretty")); err != nil {
				return err
			}
			if !allValid {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate or recover an Ed25519 keypair from a BIP-39 mnemonic",
		Flags: []cli.Flag{
			prettyFlag(),
			&cli.StringFlag{
				Name:  "mnemonic",
				Usage: "Recover from an existing mnemonic instead of generating one",
			},
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "Optional BIP-39 passphrase",
			},
			&cli.StringFlag{
				Name:  "path",
				Value: keygen.DefaultDerivationPath,
				Usage: "Derivation path (hardened segments only)",
			},
			&cli.IntFlag{
				Name:  "words",
				Value: 12,
				Usage: "Mnemonic length when generating: 12 or 24",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the keypair JSON array to this file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := loadCliConfig(c); err != nil {
				return err
			}

			mnemonic := c.String("mnemonic")
			if mnemonic == "" {
				var err error
				mnemonic, err = keygen.NewMnemonic(c.Int("words"))
				if err != nil {
					return err
				}
			}

			kp, err := keygen.FromMnemonic(mnemonic, c.String("passphrase"), c.String("path"))
			if err != nil {
				return err
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(kp.KeypairJSON()), 0o600); err != nil {
					return fmt.Errorf("failed to write keypair file: %w", err)
				}
				logger.Infof("keypair written to %s", out)
				return printJSON(map[string]interface{}{
					"pubkey":   kp.Pubkey.String(),
					"path":     kp.Path,
					"mnemonic": kp.Mnemonic,
					"file":     out,
				}, c.Bool("pretty"))
			}
			return printJSON(map[string]interface{}{
				"pubkey":   kp.Pubkey.String(),
				"path":     kp.Path,
				"mnemonic": kp.Mnemonic,
				"keypair":  json.RawMessage(kp.KeypairJSON()),
			}, c.Bool("pretty"))
		},
	}
}

func printJSON(v interface{}, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
