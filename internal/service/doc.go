// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// (defined in internal/store) to fulfill application features.
//
// Each service focuses on one domain area: task management, account
// lifecycle, and analytics. Services receive their dependencies through
// constructor injection and open transactional boundaries when an operation
// spans multiple stores, such as registration seeding onboarding tasks
// alongside the new user row.
//
// The service layer depends on domain entities and store interfaces, never
// on specific infrastructure implementations.
package service
