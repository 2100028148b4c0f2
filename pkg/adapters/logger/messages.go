package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Found %d videos in %s":                             "%[2]s に %[1]d 本の動画が見つかりました",
		"No videos found in %s":                             "%s に動画が見つかりません",
		"Could not open %s: %s":                             "%s を開けません: %s",
		"Extracting %d videos (%d frames planned)":          "%d 本の動画を抽出中 (%d フレーム予定)",
		"Extraction finished: %d frames written, %d failed": "抽出完了: %d フレーム書き込み, %d 失敗",
		"Raw frames removed from %s":                        "%s の元フレームを削除しました",
		"Failed to remove raw frames: %s":                   "元フレームの削除に失敗しました: %s",
		"Failed to save debug plan for %s: %s":              "%s のデバッグ計画を保存できません: %s",
		"Summary written to %s":                             "サマリーを %s に書き込みました",
		"Failed to write summary: %s":                       "サマリーの書き込みに失敗しました: %s",
		"%s: %s":                                            "%s: %s",

		// Raw frame cleanup
		"Keeping raw frames: %d images could not be cropped": "%d 枚の画像を切り抜けなかったため元フレームを残します",
		"Keeping raw frames: extraction had %d failures":     "抽出で %d 件の失敗があったため元フレームを残します",

		// Planning
		"%s: already complete (%d frames)":               "%s: 抽出済み (%d フレーム)",
		"%s: extracting %d frames":                       "%s: %d フレームを抽出します",
		"%s: filling %d missing of %d frames":            "%s: %[3]d フレーム中 欠落 %[2]d フレームを補完します",
		"%s: length unknown, extracting from the start":  "%s: 長さ不明のため先頭から抽出します",
		"%s: length unknown, resuming at frame index %d": "%s: 長さ不明のためインデックス %d から再開します",
		"%s: %d expected frames exceed the filename index space; extra frames are not saved": "%s: 予定フレーム数 %d がファイル名の番号範囲を超えるため、超過分は保存しません",

		// Extract stage
		"Writing %d targeted frames for %s (stride %d)":           "%[2]s の %[1]d フレームを書き込み中 (間隔 %[3]d)",
		"Reading %s sequentially from index %d (stride %d)":       "%s をインデックス %d から順に読み込み中 (間隔 %d)",
		"Skipping frame %d of %s: %s":                             "%[2]s のフレーム %[1]d をスキップ: %[3]s",
		"Stopping %s at frame %d: %s":                             "%s のフレーム %d で停止: %s",
		"Stopping %s at index %d: filename index space exhausted": "%s をインデックス %d で停止: ファイル名の番号範囲を使い切りました",
		"Stopping %s: seek to frame %d failed: %s":                "%s を停止: フレーム %d へのシークに失敗: %s",
		"%s: wrote %d frames":                                     "%s: %d フレームを書き込みました",
		"%s: %d frames could not be decoded and will be retried on the next run": "%s: %d フレームをデコードできませんでした。次回の実行で再試行します",

		// Decoder
		"Opened %s: %dx%d, frames known=%t (%d)": "%s を開きました: %dx%d, フレーム数判明=%t (%d)",
		"Started ffmpeg for %s at frame %d":      "%s の ffmpeg をフレーム %d から開始しました",
		"Sample table probe failed for %s: %s":   "%s のサンプルテーブル解析に失敗: %s",

		// Crop stage
		"Cropping detections of %q under %s":     "%[2]s 以下で %[1]q を検出して切り抜き中",
		"Found %d images under %s":               "%[2]s 以下に %[1]d 枚の画像が見つかりました",
		"Cropping finished: %d cropped, %d without detection, %d skipped": "切り抜き完了: %d 枚切り抜き, 検出なし %d 枚, スキップ %d 枚",
		"Skipping %s: %s":                        "%s をスキップ: %s",
		"No detection in %s":                     "%s では検出されませんでした",
		"Detection failed for %s: %s":            "%s の検出に失敗しました: %s",
		"Detector returned %d boxes for %q":      "検出器が %[2]q に対して %[1]d 個のボックスを返しました",
		"Failed to save debug output for %s: %s": "%s のデバッグ出力を保存できません: %s",
	})
}
