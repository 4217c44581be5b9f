package tokens

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"solana-token-desk/internal/domain"
)

// ErrUnexpectedShape marks upstream payloads that are neither of the two
// shapes this API has been observed to return (array of records, or a
// mint-keyed map of records). Bad payloads are rejected here instead of
// flowing through as zero values.
var ErrUnexpectedShape = errors.New("unexpected upstream shape")

// rawToken accepts both field spellings the tokens API has shipped:
// id/icon/holderCount in newer payloads, mint/logoURI/holders in older ones.
type rawToken struct {
	ID           string   `json:"id"`
	Mint         string   `json:"mint"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Decimals     int      `json:"decimals"`
	Icon         string   `json:"icon"`
	LogoURI      string   `json:"logoURI"`
	Tags         []string `json:"tags"`
	OrganicScore float64  `json:"organicScore"`
	MarketCap    float64  `json:"marketCap"`
	Holders      int64    `json:"holders"`
	HolderCount  int64    `json:"holderCount"`
}

func (r rawToken) normalize(keyHint string) (domain.TokenInfo, error) {
	mint := r.ID
	if mint == "" {
		mint = r.Mint
	}
	if mint == "" {
		mint = keyHint
	}
	if mint == "" {
		return domain.TokenInfo{}, fmt.Errorf("%w: token record without id or mint", ErrUnexpectedShape)
	}

	logo := r.Icon
	if logo == "" {
		logo = r.LogoURI
	}
	holders := r.Holders
	if holders == 0 {
		holders = r.HolderCount
	}

	return domain.TokenInfo{
		Mint:         mint,
		Name:         r.Name,
		Symbol:       r.Symbol,
		Decimals:     r.Decimals,
		LogoURI:      logo,
		Tags:         r.Tags,
		OrganicScore: r.OrganicScore,
		MarketCap:    r.MarketCap,
		Holders:      holders,
	}, nil
}

// normalizeList resolves the two observed response shapes into one flat
// token list. Anything else is rejected with ErrUnexpectedShape.
func normalizeList(payload json.RawMessage) ([]domain.TokenInfo, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUnexpectedShape)
	}

	switch trimmed[0] {
	case '[':
		var raws []rawToken
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		out := make([]domain.TokenInfo, 0, len(raws))
		for _, r := range raws {
			info, err := r.normalize("")
			if err != nil {
				return nil, err
			}
			out = append(out, info)
		}
		return out, nil

	case '{':
		var raws map[string]rawToken
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		out := make([]domain.TokenInfo, 0, len(raws))
		for key, r := range raws {
			info, err := r.normalize(key)
			if err != nil {
				return nil, err
			}
			out = append(out, info)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: payload is neither array nor object", ErrUnexpectedShape)
	}
}
