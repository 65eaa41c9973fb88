package repository

// Store agrupa los puertos de persistencia de un backend concreto.
// Hay dos implementaciones (postgres y memory) y una tercera (fallback) que las compone.
type Store interface {
	Users() UserRepository
	Clients() ClientRepository
	Projects() ProjectRepository
	TimeEntries() TimeEntryRepository
	Stats() StatsRepository
}
