package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path"

	"github.com/phil-mansfield/table"
)

var end = binary.LittleEndian

// PositionBytes is the size of one position in a binary dump.
const PositionBytes = 3 * 8

/*
The binary format used for position dumps is as follows:
    |-- ... 1 ... --||-- ... 2 ... --||-- ... 3 ... --|

    1 - ([]float64) x coordinates of every position.
    2 - ([]float64) y coordinates, index-aligned with 1.
    3 - ([]float64) z coordinates, index-aligned with 1.

All values are little endian. There is no header: the number of positions is
the file size divided by PositionBytes.

Files ending in .txt are written instead as three whitespace-separated
columns, x y z, one position per line.
*/

// IsText returns true if fname names a text dump.
func IsText(fname string) bool { return path.Ext(fname) == ".txt" }

// WritePositions writes index-aligned position arrays to fname.
func WritePositions(fname string, xs, ys, zs []float64) error {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		return fmt.Errorf(
			"Position arrays have lengths %d, %d, and %d.",
			len(xs), len(ys), len(zs),
		)
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	wr := bufio.NewWriter(f)
	if IsText(fname) {
		err = writeText(wr, xs, ys, zs)
	} else {
		err = writeBinary(wr, xs, ys, zs)
	}
	if err != nil {
		return err
	}

	if err = wr.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func writeBinary(wr *bufio.Writer, xs, ys, zs []float64) error {
	for _, vals := range [][]float64{xs, ys, zs} {
		if err := binary.Write(wr, end, vals); err != nil {
			return err
		}
	}
	return nil
}

func writeText(wr *bufio.Writer, xs, ys, zs []float64) error {
	for i := range xs {
		_, err := fmt.Fprintf(wr, "%.17g %.17g %.17g\n", xs[i], ys[i], zs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadPositions reads a dump written by WritePositions.
func ReadPositions(fname string) (xs, ys, zs []float64, err error) {
	if IsText(fname) {
		cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		return cols[0], cols[1], cols[2], nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, nil, err
	}
	if info.Size()%PositionBytes != 0 {
		return nil, nil, nil, fmt.Errorf(
			"%s is %d bytes, which is not a multiple of %d.",
			fname, info.Size(), PositionBytes,
		)
	}

	n := int(info.Size() / PositionBytes)
	rd := bufio.NewReader(f)
	out := [][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	for i := range out {
		if err := binary.Read(rd, end, out[i]); err != nil {
			return nil, nil, nil, err
		}
	}
	return out[0], out[1], out[2], nil
}
