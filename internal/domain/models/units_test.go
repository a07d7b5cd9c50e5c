package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     string
	}{
		{"1500000000000000000", 18, "1.5"},
		{"1000000000000000000", 18, "1"},
		{"1", 18, "0.000000000000000001"},
		{"0", 18, "0"},
		{"-2500000", 6, "-2.5"},
		{"42", 0, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			amount, ok := new(big.Int).SetString(tt.amount, 10)
			require.True(t, ok)
			assert.Equal(t, tt.want, FormatUnits(amount, tt.decimals))
		})
	}

	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		input    string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{input: "1.5", decimals: 18, want: "1500000000000000000"},
		{input: "1_000", decimals: 0, want: "1000"},
		{input: ".25", decimals: 2, want: "25"},
		{input: "-3", decimals: 1, want: "-30"},
		{input: "0.001", decimals: 2, wantErr: true},
		{input: "abc", decimals: 18, wantErr: true},
		{input: "", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnits(tt.input, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestWizardStepNavigation(t *testing.T) {
	assert.Equal(t, StepToken, StepBasics.Next())
	assert.Equal(t, StepReview, StepReview.Next())
	assert.Equal(t, StepBasics, StepBasics.Prev())
	assert.Equal(t, StepGovernance, StepTimelock.Prev())
}

func TestParseTokenType(t *testing.T) {
	tt, err := ParseTokenType("NFT")
	require.NoError(t, err)
	assert.Equal(t, TokenTypeERC721Votes, tt)

	tt, err = ParseTokenType("")
	require.NoError(t, err)
	assert.Equal(t, TokenTypeERC20Votes, tt)

	_, err = ParseTokenType("erc1155")
	assert.Error(t, err)
}
