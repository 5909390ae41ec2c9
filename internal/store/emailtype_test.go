package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/domain"
)

func TestEmailTypeDBString_RoundTrips(t *testing.T) {
	cases := []domain.EmailType{
		domain.NewAnniversaryEmailType(domain.AnniversaryBirthday),
		domain.NewFollowupEmailType(domain.FollowupHQWithYes),
		domain.NewCampaignEmailType(42, "aep"),
	}

	for _, et := range cases {
		encoded := emailTypeDBString(et)
		decoded, err := parseEmailType(encoded)
		require.NoError(t, err)
		assert.Equal(t, et, decoded)
	}
}

func TestParseEmailType_RejectsMalformed(t *testing.T) {
	_, err := parseEmailType("not-a-valid-type")
	assert.Error(t, err)

	_, err = parseEmailType("campaign:aep")
	assert.Error(t, err)
}
