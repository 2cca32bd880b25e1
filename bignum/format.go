// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bignum

import (
	"fmt"
	"math"

	"github.com/ModChain/hdcrypto"
)

// FormatOptions controls how Format renders an integer as a decimal amount.
type FormatOptions struct {
	// Prefix and Suffix are copied verbatim around the digits, for example
	// a currency symbol or unit.
	Prefix string
	Suffix string

	// Decimals is the number of digits, counted from the right, that belong
	// to the fractional part.  The value is left-padded with zeros when it
	// has fewer digits so the integral part always has at least one digit.
	Decimals uint

	// FixedPoint always prints exactly Decimals fractional digits.
	FixedPoint bool

	// TrailingZeros keeps the zeros at the end of the fractional part when
	// FixedPoint is not set.  Without it they are removed, together with
	// the decimal point if nothing remains after it.
	TrailingZeros bool

	// ThousandsSep, when not zero, separates groups of three digits of the
	// integral part.
	ThousandsSep byte
}

// MaxFormatStringLen is the longest result FormatString produces.  Longer
// results, which only arise from huge Decimals values, are rejected.
const MaxFormatStringLen = 1 << 16

// Format renders the integer according to opts into out and returns the
// number of bytes written.
//
// Nothing is written when out can't hold the whole result, in which case
// ErrInvalidFormatBufferTooSmall is returned along with a zero length.  The
// size of the result is known before anything is rendered, so huge Decimals
// values are rejected without allocating.  A zero value is always rendered as
// the single digit 0 unless FixedPoint is set, in which case the fractional
// zeros are still printed.
func (x *Int) Format(out []byte, opts *FormatOptions) (int, error) {
	if opts == nil {
		opts = &FormatOptions{}
	}

	var digits [80]byte
	l := x.layout(digits[:0], opts)
	if l.overflow || l.total > uint64(len(out)) {
		str := fmt.Sprintf("formatted number does not fit in %d bytes",
			len(out))
		return 0, hdcrypto.MakeError(hdcrypto.ErrInvalidFormatBufferTooSmall, str)
	}
	return len(l.append(out[:0], opts)), nil
}

// FormatString is a convenience wrapper around Format that returns the result
// as a string.  Results longer than MaxFormatStringLen are rejected with
// ErrInvalidFormatBufferTooSmall.
func (x *Int) FormatString(opts *FormatOptions) (string, error) {
	if opts == nil {
		opts = &FormatOptions{}
	}

	var digits [80]byte
	l := x.layout(digits[:0], opts)
	if l.overflow || l.total > MaxFormatStringLen {
		str := fmt.Sprintf("formatted number is longer than %d bytes",
			MaxFormatStringLen)
		return "", hdcrypto.MakeError(hdcrypto.ErrInvalidFormatBufferTooSmall, str)
	}
	return string(l.append(make([]byte, 0, l.total), opts)), nil
}

// formatLayout describes a formatted number without rendering it.  The
// fraction is fracPad zeros followed by frac.
type formatLayout struct {
	intPart []byte
	frac    []byte
	fracPad uint64
	seps    int
	total   uint64

	// overflow is set when the length doesn't fit in a uint64.
	overflow bool
}

func (x *Int) layout(digits []byte, opts *FormatOptions) formatLayout {
	digits = x.appendDecimal(digits)
	l := formatLayout{intPart: digits}

	if opts.Decimals > 0 && (opts.FixedPoint || !x.IsZero()) {
		decimals := uint64(opts.Decimals)
		if uint64(len(digits)) > decimals {
			split := len(digits) - int(decimals)
			l.intPart, l.frac = digits[:split], digits[split:]
		} else {
			// Left pad the fraction so the integral part is a single 0.
			l.intPart = []byte{'0'}
			l.frac = digits
			l.fracPad = decimals - uint64(len(digits))
		}

		if !opts.FixedPoint && !opts.TrailingZeros {
			for len(l.frac) > 0 && l.frac[len(l.frac)-1] == '0' {
				l.frac = l.frac[:len(l.frac)-1]
			}
			// Only padding zeros are left.
			if len(l.frac) == 0 {
				l.fracPad = 0
			}
		}
	}

	if opts.ThousandsSep != 0 {
		l.seps = (len(l.intPart) - 1) / 3
	}

	fixed := uint64(len(opts.Prefix)) + uint64(len(opts.Suffix)) +
		uint64(len(l.intPart)) + uint64(l.seps)
	fracLen := uint64(len(l.frac))
	if l.fracPad > 0 || fracLen > 0 {
		// Decimal point.
		fracLen++
	}
	if l.fracPad > math.MaxUint64-fracLen-fixed {
		l.overflow = true
		return l
	}
	l.total = fixed + fracLen + l.fracPad
	return l
}

// append renders the layout to dst, which must have room for l.total bytes
// to avoid reallocation.
func (l *formatLayout) append(dst []byte, opts *FormatOptions) []byte {
	dst = append(dst, opts.Prefix...)
	for i, d := range l.intPart {
		if opts.ThousandsSep != 0 && i > 0 && (len(l.intPart)-i)%3 == 0 {
			dst = append(dst, opts.ThousandsSep)
		}
		dst = append(dst, d)
	}
	if l.fracPad > 0 || len(l.frac) > 0 {
		dst = append(dst, '.')
		for i := uint64(0); i < l.fracPad; i++ {
			dst = append(dst, '0')
		}
		dst = append(dst, l.frac...)
	}
	return append(dst, opts.Suffix...)
}
