package netsync

import "bytes"

// 单行上限，超过还没有换行就整段丢掉重新同步
const maxLineLen = 64 << 10

// LineBuffer 把零碎的读结果拼成完整的行
type LineBuffer struct {
	buf []byte
}

// Feed 追加数据，返回已经完整的行（不含换行，跳过空行）
func (b *LineBuffer) Feed(data []byte) [][]byte {
	b.buf = append(b.buf, data...)
	var lines [][]byte
	for {
		i := bytes.IndexByte(b.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSpace(b.buf[:i])
		if len(line) > 0 {
			lines = append(lines, append([]byte(nil), line...))
		}
		b.buf = b.buf[i+1:]
	}
	if len(b.buf) > maxLineLen {
		b.buf = nil
	}
	return lines
}

// Pending 还没凑成一行的字节数
func (b *LineBuffer) Pending() int { return len(b.buf) }
