// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/email"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/media"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/messaging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/blobstore"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	AuthService    *services.AuthService
	JournalService *services.JournalService
	HistoryService *services.HistoryService
	ProfileService *services.ProfileService
	RosterService  *services.RosterService
	ChatService    *services.ChatService

	// Infrastructure Dependencies
	Logger      *logging.ChanneledLogger
	Store       docstore.Store
	Blobs       *blobstore.DiskStore
	Broadcaster *messaging.SSEBroadcaster
}

// NewContainer creates and wires all singleton services
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	store, err := docstore.NewSQLStore(docstore.Config{
		SQLitePath:  config.SQLitePath,
		LibSQLURL:   config.LibSQLURL,
		LibSQLToken: config.LibSQLToken,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize document store: %w", err)
	}

	blobs, err := blobstore.NewDiskStore(config.BlobRoot, config.BlobBaseURL)
	if err != nil {
		return nil, fmt.Errorf("initialize blob store: %w", err)
	}

	emailService, err := email.NewService()
	if err != nil {
		logger.Startup().Warn("Email provider not configured, password recovery disabled", "error", err)
		emailService = nil
	}

	broadcaster := messaging.NewSSEBroadcaster(logger)
	avatars := media.NewAvatarProcessor(blobs, config.AvatarSize)

	journalService := services.NewJournalService(store, broadcaster, logger)

	return &Container{
		AuthService:    services.NewAuthService(store, emailService, logger),
		JournalService: journalService,
		HistoryService: services.NewHistoryService(store, journalService.Normalizer(), logger),
		ProfileService: services.NewProfileService(store, avatars, logger),
		RosterService:  services.NewRosterService(store, logger),
		ChatService:    services.NewChatService(store, logger),

		Logger:      logger,
		Store:       store,
		Blobs:       blobs,
		Broadcaster: broadcaster,
	}, nil
}

// Close releases infrastructure resources.
func (c *Container) Close() error {
	if c.Store != nil {
		if closer, ok := c.Store.(interface{ Close() error }); ok {
			return closer.Close()
		}
	}
	return nil
}
