package common

type Module string

const (
	ModuleBridge Module = "bridge"
)

func (m Module) String() string {
	return string(m)
}
