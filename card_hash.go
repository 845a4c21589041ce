package unosim

// [unused bits][3 bits for kind][4 bits for digit][3 bits for color]
const (
	colorBitsCount = 3
	digitBitsCount = 4
	kindBitsCount  = 3
	colorMask      = uint32(1<<colorBitsCount) - 1
	digitMask      = (uint32(1<<digitBitsCount) - 1) << colorBitsCount
	kindMask       = (uint32(1<<kindBitsCount) - 1) << (colorBitsCount + digitBitsCount)
)

func (c Card) EncodeUint32() uint32 {
	return uint32(c.Kind)<<(colorBitsCount+digitBitsCount) |
		uint32(c.Digit)<<colorBitsCount |
		uint32(c.Color)
}

func DecodeCardFromUint32(x uint32) (Card, error) {
	card := Card{
		Color: Color(x & colorMask),
		Digit: int8((x & digitMask) >> colorBitsCount),
		Kind:  Kind((x & kindMask) >> (colorBitsCount + digitBitsCount)),
	}
	if x&^(colorMask|digitMask|kindMask) != 0 {
		return Card{}, ErrInvalidCardKind
	}
	if err := card.Validate(); err != nil {
		return Card{}, err
	}
	return card, nil
}

func (c Card) Hash() uint32 {
	return c.EncodeUint32()
}
