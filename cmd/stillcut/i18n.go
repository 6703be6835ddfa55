// Package main provides localization for the stillcut CLI.
package main

import (
	"strings"

	"github.com/ideamans/go-l10n"
)

// langFromArgs pre-scans the command line for --lang so translations
// are registered before the CLI framework renders any text.
func langFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

// registerLexicons installs the CLI translations. With "en" nothing is
// registered and the source strings pass through. With "ja" the
// Japanese lexicon is also registered for English locales, so the flag
// wins over the detected environment. Any other value leaves the
// choice to locale detection.
func registerLexicons(lang string) {
	switch lang {
	case "en":
	case "ja":
		l10n.Register("ja", japaneseLexicon)
		l10n.Register("en", japaneseLexicon)
	default:
		l10n.Register("ja", japaneseLexicon)
	}
}

var japaneseLexicon = l10n.LexiconMap{
	// Root command
	"Extract the first frames of a media file as PNG stills": "メディアファイルの先頭フレームをPNG静止画として抽出",

	// Flags
	"Packet budget on the video stream (the crossing packet is still processed)": "映像ストリームのパケット上限（超過パケットも処理されます）",
	"Directory for the stills (must already exist)":                              "静止画の出力ディレクトリ（事前に作成が必要）",
	"YAML configuration file":                                                    "YAML設定ファイル",
	"Compose a contact sheet of the extracted stills":                            "抽出した静止画からコンタクトシートを合成",
	"Contact sheet grid columns":                                                 "コンタクトシートのカラム数",
	"Write a markdown run summary to this file":                                  "実行サマリーをMarkdown形式でファイルに出力",
	"Run the full pipeline but discard output":                                   "パイプライン全体を実行し、出力は破棄",
	"Path to the ffmpeg executable":                                              "ffmpeg実行ファイルのパス",
	"Buffered-frame handling at stop (drop, flush)":                              "停止時のバッファ済みフレームの扱い（drop, flush）",
	"Log level (debug, info, warn, error)":                                       "ログレベル（debug, info, warn, error）",
	"Suppress all log output":                                                    "全てのログ出力を抑制",
	"Message language (en, ja)":                                                  "メッセージの言語（en, ja）",

	// Version command
	"Show version information": "バージョン情報を表示",
	"stillcut version %s":      "stillcut バージョン %s",

	// Usage errors
	"Exactly one input file argument is required": "入力ファイル引数を1つだけ指定してください",

	// Summary labels
	"Extraction Summary": "抽出サマリー",
	"Generated":          "生成日時",
	"Input":              "入力",
	"File":               "ファイル",
	"Format":             "形式",
	"Duration":           "長さ",
	"Bit Rate":           "ビットレート",
	"Video Stream":       "映像ストリーム",
	"Stream":             "ストリーム",
	"Codec":              "コーデック",
	"Resolution":         "解像度",
	"Frame Rate":         "フレームレート",
	"Decoder":            "デコーダ",
	"Extraction":         "抽出",
	"Packet Limit":       "パケット上限",
	"Packets Read":       "読み込みパケット数",
	"Packets Decoded":    "デコードパケット数",
	"Limit Reached":      "上限到達",
	"Drain Policy":       "ドレインポリシー",
	"Elapsed":            "所要時間",
	"Output":             "出力",
	"Directory":          "ディレクトリ",
	"Frames Saved":       "保存フレーム数",
	"Total Size":         "合計サイズ",
	"Contact Sheet":      "コンタクトシート",
	"Frames":             "フレーム",
	"PTS":                "PTS",
	"Type":               "種別",
	"Size":               "サイズ",
	"Item":               "項目",
	"Value":              "値",
	"Yes":                "はい",
	"No":                 "いいえ",
}
