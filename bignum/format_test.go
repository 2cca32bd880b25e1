// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bignum

import (
	"errors"
	"testing"

	"github.com/ModChain/hdcrypto"
)

// TestFormat ensures integers are rendered as expected for the various
// formatting options.
func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts FormatOptions
		want string
	}{{
		name: "zero plain",
		in:   "0",
		want: "0",
	}, {
		name: "zero fixed point keeps fractional zeros",
		in:   "0",
		opts: FormatOptions{Decimals: 20, FixedPoint: true},
		want: "0.00000000000000000000",
	}, {
		name: "zero ignores trailing zeros without fixed point",
		in:   "0",
		opts: FormatOptions{Decimals: 8, TrailingZeros: true, Prefix: "BTC "},
		want: "BTC 0",
	}, {
		name: "integer",
		in:   "3039",
		want: "12345",
	}, {
		name: "satoshis trimmed",
		in:   "5f5e100",
		opts: FormatOptions{Decimals: 8},
		want: "1",
	}, {
		name: "satoshis trailing zeros",
		in:   "5f5e100",
		opts: FormatOptions{Decimals: 8, TrailingZeros: true},
		want: "1.00000000",
	}, {
		name: "fractional trimmed",
		in:   "8f0d180",
		opts: FormatOptions{Decimals: 8},
		want: "1.5",
	}, {
		name: "fractional fixed point",
		in:   "8f0d180",
		opts: FormatOptions{Decimals: 8, FixedPoint: true},
		want: "1.50000000",
	}, {
		name: "left padded fraction",
		in:   "1",
		opts: FormatOptions{Decimals: 18},
		want: "0.000000000000000001",
	}, {
		name: "thousands separator",
		in:   "499602d2",
		opts: FormatOptions{ThousandsSep: ','},
		want: "1,234,567,890",
	}, {
		name: "thousands separator with fraction",
		in:   "499602d2",
		opts: FormatOptions{Decimals: 2, ThousandsSep: ' '},
		want: "12 345 678.9",
	}, {
		name: "three digits no separator",
		in:   "3e7",
		opts: FormatOptions{ThousandsSep: ','},
		want: "999",
	}, {
		name: "prefix and suffix",
		in:   "de0b6b3a7640000",
		opts: FormatOptions{Prefix: "~", Suffix: " ETH", Decimals: 18},
		want: "~1 ETH",
	}, {
		name: "max value",
		in:   "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		opts: FormatOptions{Decimals: 18, ThousandsSep: ','},
		want: "115,792,089,237,316,195,423,570,985,008,687,907,853,269,984,665,640,564,039,457.584007913129639935",
	}, {
		name: "decimals equal to digit count",
		in:   "3039",
		opts: FormatOptions{Decimals: 5},
		want: "0.12345",
	}, {
		name: "padded fraction with trimmed zeros",
		in:   "64",
		opts: FormatOptions{Decimals: 8},
		want: "0.000001",
	}, {
		name: "padded fraction trailing zeros kept",
		in:   "64",
		opts: FormatOptions{Decimals: 4, TrailingZeros: true, ThousandsSep: ','},
		want: "0.0100",
	}}

	for _, test := range tests {
		x := mustInt(test.in)
		opts := test.opts

		got, err := x.FormatString(&opts)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: got: %q want: %q", test.name, got, test.want)
			continue
		}

		buf := make([]byte, len(test.want))
		n, err := x.Format(buf, &opts)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if n != len(test.want) || string(buf[:n]) != test.want {
			t.Errorf("%s: Format wrote %q (%d)", test.name, buf[:n], n)
		}
	}
}

// TestFormatBufferTooSmall ensures nothing is written when the output buffer
// can't hold the whole result.
func TestFormatBufferTooSmall(t *testing.T) {
	var zero Int
	opts := FormatOptions{Decimals: 20, FixedPoint: true}

	buf := make([]byte, 21)
	for i := range buf {
		buf[i] = 'x'
	}
	n, err := zero.Format(buf, &opts)
	if !errors.Is(err, hdcrypto.ErrInvalidFormatBufferTooSmall) {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("unexpected length %d", n)
	}
	for i, c := range buf {
		if c != 'x' {
			t.Fatalf("byte %d modified: %q", i, c)
		}
	}

	buf = make([]byte, 22)
	n, err = zero.Format(buf, &opts)
	if err != nil || n != 22 {
		t.Fatalf("unexpected result %d, %v", n, err)
	}
	if string(buf) != "0.00000000000000000000" {
		t.Fatalf("unexpected output %q", buf)
	}
}

// TestFormatHugeDecimals ensures a Decimals value far larger than any buffer
// is rejected with an error instead of being rendered.
func TestFormatHugeDecimals(t *testing.T) {
	x := Int{5}
	tests := []FormatOptions{
		{Decimals: 1 << 62, FixedPoint: true},
		{Decimals: 1 << 32, TrailingZeros: true},
		{Decimals: ^uint(0), FixedPoint: true, Prefix: "$", Suffix: " BTC"},
	}

	for i, opts := range tests {
		opts := opts
		out := make([]byte, 32)
		n, err := x.Format(out, &opts)
		if !errors.Is(err, hdcrypto.ErrInvalidFormatBufferTooSmall) {
			t.Errorf("#%d: unexpected error: %v", i, err)
		}
		if n != 0 {
			t.Errorf("#%d: unexpected length %d", i, n)
		}

		str, err := x.FormatString(&opts)
		if !errors.Is(err, hdcrypto.ErrInvalidFormatBufferTooSmall) {
			t.Errorf("#%d: unexpected FormatString error: %v", i, err)
		}
		if str != "" {
			t.Errorf("#%d: unexpected FormatString result %q", i, str)
		}
	}

	// A Decimals value larger than the digit count still renders when the
	// result is small enough.
	opts := FormatOptions{Decimals: 40}
	str, err := x.FormatString(&opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if str != "0.0000000000000000000000000000000000000005" {
		t.Fatalf("unexpected output %q", str)
	}
}
