package messaging

// События жизненного цикла объявления, публикуемые сервисом
const (
	ListingCreatedEvent   = "listing_created"
	ListingUpdatedEvent   = "listing_updated"
	ListingDeletedEvent   = "listing_deleted"
	ListingPublishedEvent = "listing_published"
)
