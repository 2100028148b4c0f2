// Package main provides localization for the frameharvest CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input/Output": "入出力",
		"Extraction":   "フレーム抽出",
		"Detection":    "検出と切り抜き",
		"Reporting":    "レポート",
		"Debug":        "デバッグ",
		"Logging":      "ログ",

		// Root command
		"Extract frames from videos and crop detected objects": "動画からフレームを抽出し、検出した物体を切り抜く",
		"frameharvest saves every Nth frame of each video in a directory, resuming interrupted runs by filling only the missing frames, and optionally crops the largest detection of a text prompt from each frame.": "frameharvestはディレクトリ内の各動画からNフレームごとに画像を保存します。中断された実行は欠落フレームだけを補完して再開し、必要に応じてテキストプロンプトで検出した最大の物体を各フレームから切り抜きます。",
		"Interrupted, shutting down...":                        "中断されました。シャットダウン中...",

		// Commands
		"Extract frames, then crop detections":          "フレームを抽出してから検出結果を切り抜く",
		"Extract missing frames without cropping":       "切り抜きをせずに欠落フレームを抽出",
		"Crop detections from frames already extracted": "抽出済みフレームから検出結果を切り抜く",
		"Show what an extraction run would do":          "抽出を実行した場合の処理内容を表示",
		"Show version information":                      "バージョン情報を表示",
		"frameharvest version %s":                       "frameharvest バージョン %s",

		// Input/Output flags
		"YAML configuration file":                                                "YAML設定ファイル",
		"Directory containing the videos":                                        "動画を含むディレクトリ",
		"Output directory (frames/ and cropped/ are created inside)":             "出力ディレクトリ（frames/ と cropped/ が作成されます）",
		"Rewrite frames and crops that already exist":                            "既存のフレームと切り抜き画像を上書き",
		"Write all frames directly into frames/ instead of one folder per video": "動画ごとのフォルダを作らず frames/ に直接書き込む",

		// Extraction flags
		"Save every Nth frame (values below 1 mean 1)":                         "Nフレームごとに保存（1未満は1として扱う）",
		"Frame image format (jpg, png)":                                        "フレーム画像の形式（jpg, png）",
		"JPEG quality (1-100)":                                                 "JPEG品質（1-100）",
		"Path to the ffmpeg executable (falls back to FFMPEG_PATH, then PATH)": "ffmpeg実行ファイルのパス（未指定時は FFMPEG_PATH、次に PATH）",

		// Detection flags
		"Text prompt describing the object to crop":                "切り抜く物体を表すテキストプロンプト",
		"Minimum box confidence (0-1)":                             "ボックス信頼度の下限（0-1）",
		"Minimum text match confidence (0-1)":                      "テキスト一致信頼度の下限（0-1）",
		"Inference device requested from the detector (cpu, cuda)": "検出器に要求する推論デバイス（cpu, cuda）",
		"Base URL of the detection service":                        "検出サービスのベースURL",
		"Cropped image format (jpg, png)":                          "切り抜き画像の形式（jpg, png）",
		"Remove frames/ after a successful crop pass":              "切り抜き成功後に frames/ を削除",

		// Reporting, debug and logging flags
		"Write a run summary (.md or .json)":   "実行サマリーを書き出す（.md または .json）",
		"Save plans and annotated detections":  "計画と注釈付き検出画像を保存",
		"Directory for debug output":           "デバッグ出力先ディレクトリ",
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, text, json)":     "ログ形式（console, text, json）",
		"Suppress all log output":              "すべてのログ出力を抑制",
		"Disable progress bars":                "プログレスバーを無効化",

		// Plan output
		"VIDEO":                               "動画",
		"MODE":                                "モード",
		"EXPECTED":                            "予定数",
		"EXISTING":                            "既存数",
		"ACTION":                              "処理",
		"skip: %s":                            "スキップ: %s",
		"nothing to do":                       "処理なし",
		"read from index %d to end of stream": "インデックス %d から末尾まで読み込み",
		"fill %d missing frames":              "欠落 %d フレームを補完",
		"extract %d frames":                   "%d フレームを抽出",

		// Summary report
		"Extraction Summary":                      "抽出サマリー",
		"Run ID":                                  "実行ID",
		"Generated":                               "作成日時",
		"Duration":                                "所要時間",
		"Input":                                   "入力",
		"Output":                                  "出力",
		"Settings":                                "設定",
		"Format":                                  "形式",
		"Stride":                                  "間隔",
		"Per-video folders":                       "動画ごとのフォルダ",
		"Overwrite":                               "上書き",
		"Prompt":                                  "プロンプト",
		"Thresholds":                              "しきい値",
		"Device":                                  "デバイス",
		"Videos":                                  "動画",
		"No videos found.":                        "動画が見つかりませんでした。",
		"Video":                                   "動画",
		"Status":                                  "状態",
		"Expected":                                "予定数",
		"Existing":                                "既存数",
		"Written":                                 "書き込み数",
		"Failed":                                  "失敗数",
		"Frames written":                          "書き込みフレーム",
		"Frames failed":                           "失敗フレーム",
		"Cropping":                                "切り抜き",
		"Cropped":                                 "切り抜き数",
		"No detection":                            "検出なし",
		"Degenerate box":                          "無効なボックス",
		"Unreadable image":                        "読み込めない画像",
		"Detector error":                          "検出エラー",
		"Already cropped":                         "切り抜き済み",
		"Raw frames were removed after cropping.": "切り抜き後に元フレームを削除しました。",
		"Generated by frameharvest":               "frameharvest により作成",
		"yes":                                     "はい",
		"no":                                      "いいえ",
		"planned":                                 "計画済み",
		"extracted":                               "抽出済み",
		"complete":                                "完了済み",
		"open_failed":                             "オープン失敗",
		"failed":                                  "失敗",
	})
}
