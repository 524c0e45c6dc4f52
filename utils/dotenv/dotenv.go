package dotenv

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

const (
	EnvVar  = "HACKERNEWS_ENV"
	DevEnv  = "dev"
	ProdEnv = "prod"
	TestEnv = "test"
)

// GetEnv returns the runtime environment, "dev" when unset.
func GetEnv() string {
	env := os.Getenv(EnvVar)
	if env == "" {
		return DevEnv
	}
	return env
}

// IsProdEnv returns true iff running in production.
func IsProdEnv() bool {
	return GetEnv() == ProdEnv
}

// Load loads the .env file following the convention: https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only need to be called once in main function, other code can use env through os.Getenv('ENV_NAME') during runtime
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

func loadDotEnvs(rootPath string) {
	env := GetEnv()

	// .env.[runtime_env].local has highest priority, usually contains username and password and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}

// Have to write this helper function due to a known issue of godotenv
// https://github.com/joho/godotenv/issues/43
func LoadDotEnvsInTests() error {
	re := regexp.MustCompile(`^(.*hackernews)`)
	cwd, _ := os.Getwd()
	rootPath := re.Find([]byte(cwd))

	godotenv.Load(string(rootPath) + "/" + ".env.test")
	return nil
}
