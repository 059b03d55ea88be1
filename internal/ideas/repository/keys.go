package repository

// Keys under the application namespace. Clearing all data erases every one of them.
const (
	KeyProjects    = "projects"
	KeyAPIKey      = "apiKey"
	KeyModel       = "defaultModel"
	KeyCRTEffect   = "crtEffect"
	KeyColorScheme = "colorScheme"
	KeyHasVisited  = "hasVisited"
)
