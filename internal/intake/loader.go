package intake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/veridict/veridict/internal/model"
)

// claimsFile is the envelope form of a claims file. A bare top-level
// array is accepted too.
type claimsFile struct {
	Claims []model.Claim `json:"claims" yaml:"claims"`
}

// LoadClaims reads claims from a JSON or YAML file, keyed off the
// extension. Unknown extensions are tried as JSON first, then YAML.
// Claims with no id get a generated UUID, claims with no type get a
// heuristic one, and positions are reassigned from file order.
func LoadClaims(path string) ([]model.Claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}

	var raw []model.Claim
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = parseYAMLClaims(data)
	case ".json":
		raw, err = parseJSONClaims(data)
	default:
		raw, err = parseJSONClaims(data)
		if err != nil {
			raw, err = parseYAMLClaims(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	claims := normalizeClaims(raw)
	if len(claims) == 0 {
		return nil, fmt.Errorf("no claims found in %s", path)
	}
	return claims, nil
}

func parseJSONClaims(data []byte) ([]model.Claim, error) {
	var list []model.Claim
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var file claimsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Claims, nil
}

func parseYAMLClaims(data []byte) ([]model.Claim, error) {
	var list []model.Claim
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var file claimsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Claims, nil
}

// normalizeClaims drops blank entries and fills missing ids and types.
// Position always comes from file order; the file is the document.
func normalizeClaims(raw []model.Claim) []model.Claim {
	claims := make([]model.Claim, 0, len(raw))
	for _, claim := range raw {
		claim.Text = strings.TrimSpace(claim.Text)
		if claim.Text == "" {
			continue
		}
		if claim.ID == "" {
			claim.ID = uuid.NewString()
		}
		if claim.ClaimType == "" {
			claim.ClaimType = ClassifyType(claim.Text)
		} else {
			claim.ClaimType = model.ParseClaimType(string(claim.ClaimType))
		}
		claim.Position = len(claims)
		claims = append(claims, claim)
	}
	return claims
}
