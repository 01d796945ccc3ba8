package configs

// AppVersion 应用程序版本号，构建时可通过 -ldflags 覆盖.
var AppVersion = "1.0.0"
