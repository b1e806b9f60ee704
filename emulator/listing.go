package emulator

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/esil/esil"
)

// Line is one instruction of a listing.
type Line struct {
	LineNo  int
	Address uint64
	Program *esil.Program
}

// Listing is a sequence of ESIL strings, one per instruction.
//
// Each line is either "<address> <esil>" or just "<esil>", in which
// case the address follows the previous line. Blank lines and lines
// starting with '#' are ignored.
type Listing struct {
	Lines []Line

	index map[uint64]int
}

// ParseListing compiles every line of a listing against an operator
// table.
func ParseListing(r io.Reader, ops *esil.OpTable) (listing *Listing, err error) {
	listing = &Listing{
		index: map[uint64]int{},
	}

	var address uint64
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		if head, tail, ok := strings.Cut(text, " "); ok {
			if len(head) > 0 && head[0] >= '0' && head[0] <= '9' && !strings.ContainsAny(head, ",;") {
				address, err = strconv.ParseUint(head, 0, 64)
				if err != nil {
					err = &ErrListing{LineNo: lineno, Err: ErrAddress}
					listing = nil
					return
				}
				text = strings.TrimSpace(tail)
			}
		}

		var prog *esil.Program
		prog, err = ops.Compile(text)
		if err != nil {
			err = &ErrListing{LineNo: lineno, Err: err}
			listing = nil
			return
		}

		listing.index[address] = len(listing.Lines)
		listing.Lines = append(listing.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Program: prog,
		})
		address++
	}

	err = scanner.Err()
	if err != nil {
		listing = nil
	}
	return
}

// Find returns the index of the line at an address.
func (listing *Listing) Find(address uint64) (index int, ok bool) {
	index, ok = listing.index[address]
	return
}
