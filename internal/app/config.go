package app

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// CatalogConfig описывает настройки запуска сервиса каталога.
type CatalogConfig struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустая строка отключает Kafka.
	KafkaBrokers string

	// IdentityURL — адрес внешнего сервиса аутентификации.
	// Пустая строка включает статическую проверку bearer-токена для локальной разработки.
	IdentityURL string
}

// DefaultCatalogConfig возвращает базовые настройки сервиса каталога.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		HTTPAddr:            ":8081",
		MetricsAddr:         ":9091",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
	}
}

// OrderConfig описывает настройки запуска сервиса заказов.
type OrderConfig struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустая строка отключает Kafka.
	KafkaBrokers string

	// CatalogURL — базовый адрес HTTP API сервиса каталога.
	CatalogURL string

	// IdentityURL — адрес внешнего сервиса аутентификации.
	IdentityURL string
}

// DefaultOrderConfig возвращает базовые настройки сервиса заказов.
func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		CatalogURL:          "http://localhost:8081",
	}
}
