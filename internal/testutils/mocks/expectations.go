// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	stderrors "errors"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-progression/internal/clients/external"
	externalmock "github.com/KirkDiggler/rpg-progression/internal/clients/external/mock"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// ExpectClassSpellList makes the catalog list spellIDs for one class and spell level
func ExpectClassSpellList(mockClient *externalmock.MockClient, classID string, level int, spellIDs ...string) *gomock.Call {
	refs := make([]*external.SpellRef, 0, len(spellIDs))
	for _, id := range spellIDs {
		refs = append(refs, &external.SpellRef{ID: id, Name: id, Level: level})
	}

	return mockClient.EXPECT().
		ListClassSpells(gomock.Any(), &external.ListSpellsInput{ClassID: classID, Level: level}).
		Return(refs, nil)
}

// ExpectCatalogOutage makes every list call fail the way an unreachable API does
func ExpectCatalogOutage(mockClient *externalmock.MockClient) *gomock.Call {
	return mockClient.EXPECT().
		ListClassSpells(gomock.Any(), gomock.Any()).
		Return(nil, errors.WrapWithCode(stderrors.New("dial tcp: i/o timeout"), errors.CodeUnavailable, "failed to list spells")).
		AnyTimes()
}
