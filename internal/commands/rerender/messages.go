package rerendercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-markitup/markup"
)

const rerenderDocumentsMessageType = "markitup.documents.rerender"

// RerenderDocumentsCommand re-renders stored documents from their raw text.
// Empty IDs select every document.
type RerenderDocumentsCommand struct {
	// IDs limits the run to specific documents.
	IDs []uuid.UUID `json:"ids,omitempty"`
	// Formatter renders with a registered formatter instead of the bound one.
	Formatter string `json:"formatter,omitempty"`
	// Options are passed to the override formatter.
	Options markup.Options `json:"options,omitempty"`
	// DryRun reports what would change without persisting.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (RerenderDocumentsCommand) Type() string { return rerenderDocumentsMessageType }

// Validate rejects nil IDs and options without a formatter.
func (cmd RerenderDocumentsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.IDs, validation.Each(validation.By(func(value any) error {
			if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
				return validation.NewError("markitup.documents.rerender.id_invalid", "document id must not be empty")
			}
			return nil
		}))),
		validation.Field(&cmd.Options, validation.When(strings.TrimSpace(cmd.Formatter) == "",
			validation.Empty.Error("options require a formatter"),
		)),
	)
}
