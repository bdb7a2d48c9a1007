// Package constants holds shared literal values used across layers.
package constants

// Deployment environments.
const (
	// EnvDevelop marks a local development deployment.
	EnvDevelop = "develop"
	// EnvProduction marks the production deployment.
	EnvProduction = "production"
)

// Pub/Sub provider selectors.
const (
	// PubSubProviderLocal selects the local HTTP push publisher for development.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle selects Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)
