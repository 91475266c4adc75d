package in

import "context"

type Usecase interface {
	Send(ctx context.Context, command string, args []string, port int) error
	Connect(ctx context.Context, host string, port int) error
}
