package eth

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEther(t *testing.T) {
	t.Run("constants", func(t *testing.T) {
		require.EqualValues(t, OneGWei, OneWei.Mul(1e9))
		require.EqualValues(t, OneEther, OneGWei.Mul(1e9))
		require.EqualValues(t, OneEther, OneTenthEther.Mul(10))
		require.EqualValues(t, OneTenthEther, FiveHundredthsEther.Mul(2))
		require.EqualValues(t, FiveEther, OneEther.Mul(5))
		require.EqualValues(t, big.NewInt(1), OneWei.ToBig(), "sanity check not mutated value")
	})

	t.Run("string", func(t *testing.T) {
		require.Equal(t, "0 wei", ZeroWei.String())
		require.Equal(t, "1 wei", OneWei.String())
		require.Equal(t, "1 gwei", OneGWei.String())
		require.Equal(t, "1 ether", OneEther.String())
		require.Equal(t, "100,000,000 gwei", OneTenthEther.String())
		require.Equal(t, "1,000 ether", ThousandEther.String())
		require.Equal(t, "18,446,744,073,709,551,615 wei", MaxU64Wei.String())
	})

	t.Run("ether string", func(t *testing.T) {
		require.Equal(t, "0.000000000000000001", OneWei.EtherString())
		require.Equal(t, "0.1", OneTenthEther.EtherString())
		require.Equal(t, "0.05", FiveHundredthsEther.EtherString())
		require.Equal(t, "5", FiveEther.EtherString())
		require.Equal(t, "1.000000001", OneEther.Add(OneGWei).EtherString())
	})

	t.Run("add", func(t *testing.T) {
		require.Equal(t, Ether(4), OneEther.Add(Ether(3)))
		_, overflowed := MaxU256Wei.AddOverflow(OneWei)
		require.True(t, overflowed)
		require.Panics(t, func() {
			MaxU256Wei.Add(OneWei)
		}, "expect overflow panic")
	})

	t.Run("sub", func(t *testing.T) {
		require.Equal(t, "2,999,999,999,999,999,999 wei", Ether(3).Sub(OneWei).String())
		_, underflowed := ZeroWei.SubUnderflow(OneWei)
		require.True(t, underflowed)
		require.Panics(t, func() {
			ZeroWei.Sub(OneWei)
		}, "expect underflow panic")
	})

	t.Run("mul", func(t *testing.T) {
		require.Equal(t, Ether(3000), ThousandEther.Mul(3))
		require.Equal(t, ZeroWei, ThousandEther.Mul(0))
		_, overflowed := MaxU256Wei.MulOverflow(2)
		require.True(t, overflowed)
		require.Panics(t, func() {
			MaxU256Wei.Mul(2)
		})
	})

	t.Run("compare", func(t *testing.T) {
		require.True(t, FiveHundredthsEther.Lt(OneTenthEther))
		require.False(t, OneTenthEther.Lt(OneTenthEther))
		require.True(t, TwoTenthsEther.Gt(OneTenthEther))
		require.False(t, OneTenthEther.Gt(OneTenthEther))
		require.True(t, ZeroWei.IsZero())
		require.False(t, OneWei.IsZero())
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(OneTenthEther)
		require.NoError(t, err)
		require.Equal(t, `"100000000000000000"`, string(data))
		var x ETH
		require.NoError(t, json.Unmarshal(data, &x))
		require.Equal(t, OneTenthEther, x)
		require.NoError(t, json.Unmarshal([]byte(`"0x16345785d8a0000"`), &x))
		require.Equal(t, OneTenthEther, x)
	})
}

func TestParseEther(t *testing.T) {
	for _, tt := range []struct {
		in  string
		out ETH
		err error
	}{
		{in: "5", out: FiveEther},
		{in: "0.1", out: OneTenthEther},
		{in: ".1", out: OneTenthEther},
		{in: ".2", out: TwoTenthsEther},
		{in: "0.05", out: FiveHundredthsEther},
		{in: "1.", out: OneEther},
		{in: " 1000 ", out: ThousandEther},
		{in: "0", out: ZeroWei},
		{in: "0.000000000000000001", out: OneWei},
		{in: "0.000000001", out: OneGWei},
		{in: "", err: ErrEmptyAmount},
		{in: ".", err: ErrInvalidAmount},
		{in: "-1", err: ErrInvalidAmount},
		{in: "1e18", err: ErrInvalidAmount},
		{in: "1.2.3", err: ErrInvalidAmount},
		{in: "1,000", err: ErrInvalidAmount},
		{in: "0.0000000000000000001", err: ErrTooManyDecimals},
		{in: "1" + strings.Repeat("0", 78), err: ErrAmountOverflow},
	} {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseEther(tt.in)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.out, v)
		})
	}

	t.Run("roundtrip", func(t *testing.T) {
		for _, v := range []ETH{OneWei, OneGWei, FiveHundredthsEther, OneTenthEther, FiveEther, ThousandEther.Add(OneWei)} {
			parsed, err := ParseEther(v.EtherString())
			require.NoError(t, err)
			require.Equal(t, v, parsed)
		}
	})
}

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("1.5", 9)
	require.NoError(t, err)
	require.Equal(t, GWei(1).Add(WeiU64(500_000_000)), v)

	require.Equal(t, "1.5", v.FormatUnits(9))
	require.Equal(t, "1500000000", v.FormatUnits(0))
	require.Equal(t, "0.0000000015", v.FormatUnits(18))

	v, err = ParseUnits("42", 0)
	require.NoError(t, err)
	require.Equal(t, WeiU64(42), v)

	_, err = ParseUnits("4.2", 0)
	require.ErrorIs(t, err, ErrTooManyDecimals)
}
