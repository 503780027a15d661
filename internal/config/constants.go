package config

const (
	DefaultCachePath = "./KoboReader.sqlite"
	DefaultStatePath = "./kobo2notion.db"
	DefaultIcon      = "📖"
	DefaultSchedule  = "0 */6 * * *"
)
