package resources

// S3TC blocks encode 4x4 texels. Flipping an image vertically reverses the
// order of block rows and, inside each block, the order of texel rows.
// Images shorter than 4 texels only use the first rows of a block.

// flipBlocks writes the vertically flipped blocks of src into dst.
func flipBlocks(dst, src []byte, c Compression, width, height int) {
	size := c.BlockSize()
	bw, bh := (width+3)/4, (height+3)/4
	rowBytes := bw * size
	rows := min(height, 4)
	for by := 0; by < bh; by++ {
		out := dst[by*rowBytes : (by+1)*rowBytes]
		copy(out, src[(bh-1-by)*rowBytes:])
		for bx := 0; bx < bw; bx++ {
			block := out[bx*size : (bx+1)*size]
			switch c {
			case CompressionDXT1:
				flipDXT1(block, rows)
			case CompressionDXT3:
				flipDXT3(block, rows)
			case CompressionDXT5:
				flipDXT5(block, rows)
			}
		}
	}
}

// flipDXT1 flips a colour block: two 16 bit endpoints followed by one byte
// of 2 bit indices per texel row.
func flipDXT1(block []byte, rows int) {
	reverse(block[4:4+rows], 1)
}

// flipDXT3 flips an explicit alpha block (16 bits of 4 bit alpha per row)
// followed by a colour block.
func flipDXT3(block []byte, rows int) {
	reverse(block[:2*rows], 2)
	flipDXT1(block[8:], rows)
}

// flipDXT5 flips an interpolated alpha block, two endpoints followed by
// 48 bits of 3 bit indices (12 bits per row), followed by a colour block.
func flipDXT5(block []byte, rows int) {
	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(block[2+i]) << (8 * i)
	}
	var row [4]uint64
	for r := 0; r < 4; r++ {
		row[r] = bits >> (12 * r) & 0xFFF
	}
	for i, j := 0, rows-1; i < j; i, j = i+1, j-1 {
		row[i], row[j] = row[j], row[i]
	}
	bits = 0
	for r := 0; r < 4; r++ {
		bits |= row[r] << (12 * r)
	}
	for i := 0; i < 6; i++ {
		block[2+i] = byte(bits >> (8 * i))
	}
	flipDXT1(block[8:], rows)
}

// reverse reverses the order of the size byte groups in b.
func reverse(b []byte, size int) {
	n := len(b) / size
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		for k := 0; k < size; k++ {
			b[i*size+k], b[j*size+k] = b[j*size+k], b[i*size+k]
		}
	}
}
