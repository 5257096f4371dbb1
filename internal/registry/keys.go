package registry

import (
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/pubsub"
	"github.com/nfrund/portfolio/internal/revalidation"
	"github.com/nfrund/portfolio/internal/storage"
)

// Service keys shared between modules. Using typed keys prevents both typos
// and type mismatches.
var (
	// DocumentStoreKey is only set when a write path exists.
	DocumentStoreKey = Key[cms.DocumentStore]("cms.documents")
	RevalidatorKey   = Key[*revalidation.Service]("revalidation.service")
	EventsKey        = Key[pubsub.Publisher]("pubsub.publisher")
	UploadTokensKey  = Key[*storage.TokenIssuer]("storage.tokens")
)
