package event

import (
	"github.com/asaskevich/EventBus"

	"github.com/kuvalkin/accounts/internal/support/log"
)

const AccountRegistered = "account:registered"

var (
	bus = EventBus.New()
)

func Subscribe(topic string, fn any) error {
	return bus.SubscribeAsync(topic, fn, false)
}

func Unsubscribe(topic string, fn any) error {
	return bus.Unsubscribe(topic, fn)
}

func Publish(topic string, args ...interface{}) {
	log.Logger().Named("event").Debugw(topic, "args", args)

	bus.Publish(topic, args...)
}

// Release waits for async handlers still running
func Release() {
	bus.WaitAsync()
}
