package main

// @title House Inventory Gateway
// @version 1.0
// @description Session-holding gateway in front of the house inventory backend.
// @BasePath /api
func main() {
	cfg := LoadConfiguration()

	app := NewApp(cfg)
	defer app.cleanup()

	app.InitializeServer()
	app.StartServer()
}
