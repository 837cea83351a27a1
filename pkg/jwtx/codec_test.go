package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCookieCodecRoundtrip(t *testing.T) {
	t.Parallel()

	codec, err := NewCookieCodec("homeeasy-portal", "")
	require.NoError(t, err)

	claims := NewSessionClaims("01J0SESSION", "homeeasy-portal", time.Hour, time.Now())
	signed, err := codec.Sign(claims)
	require.NoError(t, err)

	verified, err := codec.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "01J0SESSION", verified.SID)
	require.NotEmpty(t, verified.ID)
}

func TestCookieCodecRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	codec, err := NewCookieCodec("homeeasy-portal", "")
	require.NoError(t, err)

	signed, err := codec.Sign(NewSessionClaims("01J0SESSION", "homeeasy-portal", time.Hour, time.Now()))
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = codec.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookieCodecRejectsForeignKey(t *testing.T) {
	t.Parallel()

	a, err := NewCookieCodec("homeeasy-portal", "")
	require.NoError(t, err)
	b, err := NewCookieCodec("homeeasy-portal", "")
	require.NoError(t, err)

	signed, err := a.Sign(NewSessionClaims("01J0SESSION", "homeeasy-portal", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = b.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookieCodecRejectsExpired(t *testing.T) {
	t.Parallel()

	codec, err := NewCookieCodec("homeeasy-portal", "")
	require.NoError(t, err)

	signed, err := codec.Sign(NewSessionClaims("01J0SESSION", "homeeasy-portal", time.Hour, time.Now().Add(-2*time.Hour)))
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookieCodecRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	codec, err := NewCookieCodec("homeeasy-portal", "")
	require.NoError(t, err)

	signed, err := codec.Sign(NewSessionClaims("01J0SESSION", "someone-else", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
