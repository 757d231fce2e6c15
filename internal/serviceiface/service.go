package serviceiface

// Service is the lifecycle contract every managed service implements. Start
// must not block; long-running work belongs in a goroutine the service owns.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
