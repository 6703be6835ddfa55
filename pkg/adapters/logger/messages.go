package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration
		"Extracting up to %d frames from %s":          "%[2]s から最大 %[1]d フレームを抽出中",
		"Extracted %d frames from %d packets":         "%[2]d パケットから %[1]d フレームを抽出しました",
		"Pipeline completed successfully":             "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":               "中断されました。シャットダウン中...",
		"Dry run: %d frames decoded, nothing written": "ドライラン: %d フレームをデコードしました (書き込みなし)",
		"Saved %d frames to %s":                       "%d フレームを %s に保存しました",

		// Container
		"Container format %s, duration %d ms, bit rate %d bps": "コンテナ形式 %s, 長さ %d ms, ビットレート %d bps",
		"Stream #%d: video %s %dx%d, %.2f fps, time base 1/%d": "ストリーム #%d: 映像 %s %dx%d, %.2f fps, タイムベース 1/%d",
		"Stream #%d: audio %s, %d Hz, %d channels":             "ストリーム #%d: 音声 %s, %d Hz, %d チャンネル",
		"Stream #%d: unsupported codec, skipping":              "ストリーム #%d: 未対応のコーデックのためスキップします",
		"Selected video stream #%d (%s %dx%d)":                 "映像ストリーム #%d を選択 (%s %dx%d)",

		// Decode loop
		"Packet stream %d pts %d":           "パケット ストリーム %d pts %d",
		"Frame %c (%d) pts %d key_frame %t": "フレーム %c (%d) pts %d キーフレーム %t",
		"Saving frame %d to %s":             "フレーム %d を %s に保存中",
		"Reached packet limit %d":           "パケット上限 %d に達しました",
		"Draining decoder":                  "デコーダをフラッシュ中",
		"Dropping in-flight frames on stop": "停止時にデコーダ内のフレームを破棄します",
		"Wrote %d frames (%d bytes)":        "%d フレームを書き込みました (%d バイト)",

		// Converter
		"Source pixel format is %s, not %s: generated images may not be what you expect": "入力ピクセル形式が %s です (%s ではありません): 期待と異なる画像が生成される可能性があります",

		// Decoder backends
		"Decoding with %s backend":      "%s バックエンドでデコード中",
		"ffmpeg produced %d new frames": "ffmpeg が %d 個の新しいフレームを生成しました",

		// Contact sheet stage
		"Composing contact sheet (%d frames, %d columns)": "コンタクトシートを合成中 (%d フレーム, %d カラム)",
		"Contact sheet saved to %s":                       "コンタクトシートを %s に保存しました",
		"Scaling %d thumbnails with %d workers":           "%d 個のサムネイルを %d ワーカーで縮小中",
		"Skipping contact sheet in dry run":               "ドライランのためコンタクトシートをスキップします",

		// Summary
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Skipping summary in dry run": "ドライランのためサマリーをスキップします",

		// Errors
		"Failed to extract frames: %s":        "フレームの抽出に失敗しました: %s",
		"Failed to compose contact sheet: %s": "コンタクトシートの合成に失敗しました: %s",
		"Failed to write summary: %s":         "サマリーの書き込みに失敗しました: %s",
	})
}
