package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorSub_NeverNegative(t *testing.T) {
	for stock := int64(0); stock <= 30; stock++ {
		for sold := int64(0); sold <= 30; sold++ {
			got := FloorSub(stock, sold)
			assert.GreaterOrEqual(t, got, int64(0))

			want := stock - sold
			if want < 0 {
				want = 0
			}
			assert.Equal(t, want, got, "stock=%d sold=%d", stock, sold)
		}
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, MustMoney("37.50").Equal(LineTotal(3, MustMoney("12.50"))))
	assert.True(t, LineTotal(0, MustMoney("99")).IsZero())
}

func TestShareValue(t *testing.T) {
	assert.True(t, NewMoneyFromInt(10000).Equal(ShareValue(10)))
	assert.True(t, ShareValue(0).IsZero())
}
