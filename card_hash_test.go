package unosim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEveryStandardCard(t *testing.T) {
	seen := make(map[uint32]Card)
	for _, card := range NewStandardDeck() {
		enc := card.EncodeUint32()
		decoded, err := DecodeCardFromUint32(enc)
		require.NoError(t, err)
		assert.Equal(t, card, decoded)

		if other, ok := seen[enc]; ok {
			assert.Equal(t, other, card, "hash collision")
		}
		seen[enc] = card
	}
	// 4 colors * (10 digits + 3 actions) + 2 wild kinds
	assert.Len(t, seen, 54)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeCardFromUint32(0)
	assert.Error(t, err)

	_, err = DecodeCardFromUint32(1 << 20)
	assert.Error(t, err)

	wildWithColor := Card{Kind: KindWild, Color: Red}.EncodeUint32()
	_, err = DecodeCardFromUint32(wildWithColor)
	assert.ErrorIs(t, err, ErrInvalidCardColor)
}
