package gcashocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindReferenceLabelled(t *testing.T) {
	assert.Equal(t, "9015336412884", FindReference("Ref No. 9015 336 412884"))
	assert.Equal(t, "9015336412884", FindReference("reference no: 9015336412884"))
}

func TestFindReferenceBareGroups(t *testing.T) {
	assert.Equal(t, "9015336412884", FindReference("sent 9015 336 412884 today"))
}

func TestFindReferenceAbsent(t *testing.T) {
	assert.Equal(t, "", FindReference("no digits of note here"))
	assert.Equal(t, "", FindReference(""))
}

func TestContainsPaymentReference(t *testing.T) {
	text := "message: payment for brgy-260829001 thank you"
	assert.True(t, ContainsPaymentReference(text, "BRGY-260829001"))
	assert.False(t, ContainsPaymentReference(text, "BRGY-260829002"))
	assert.False(t, ContainsPaymentReference(text, ""))
}
