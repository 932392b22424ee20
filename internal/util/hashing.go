package util

import (
	"crypto/sha256"
	"strconv"
)

// HashVectors hashes the coordinates of every vector, keeping vector
// boundaries so ([1 2], [3]) and ([1], [2 3]) differ. Coordinates are
// written in their shortest exact form, so distinct floats never collide.
func HashVectors(vecs ...[]float64) [32]byte {
	buffer := GetBytesBuffer()
	defer PutBytesBuffer(buffer)
	for _, vec := range vecs {
		for i := range vec {
			buffer.WriteString(strconv.FormatFloat(vec[i], 'g', -1, 64))
			buffer.WriteByte(',')
		}
		buffer.WriteByte(';')
	}
	return sha256.Sum256(buffer.Bytes())
}
