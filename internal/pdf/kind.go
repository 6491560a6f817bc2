// Package pdf はPDF変換・結合・分割の処理本体を提供します。
package pdf

import (
	"path/filepath"
	"strings"
)

// Kind は変換対象の入力ファイル種別を表します。対応種別は閉じた集合で、
// どの種別にも一致しない入力は明示的に KindUnsupported になります。
type Kind int

const (
	KindUnsupported Kind = iota
	KindWord             // Word文書 (.doc, .docx)
	KindText             // プレーンテキスト (.txt)
	KindImage            // 画像 (.jpg, .jpeg, .png)
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unsupported"
	}
}

// KindForPath は拡張子から入力ファイル種別を判定します。
func KindForPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".doc", ".docx":
		return KindWord
	case ".txt":
		return KindText
	case ".jpg", ".jpeg", ".png":
		return KindImage
	default:
		return KindUnsupported
	}
}
