package telegram

import (
	"context"
	"sync"

	"github.com/igolaizola/musikbot/pkg/conversation"
)

type handleFunc func(ctx context.Context, s *conversation.Session, ev conversation.Event)

type chat struct {
	session *conversation.Session
	queue   []conversation.Event
	running bool
}

// dispatcher applies the events of each chat in arrival order, one at a time.
// Different chats are handled concurrently.
type dispatcher struct {
	handle handleFunc
	lck    sync.Mutex
	chats  map[int64]*chat
	wg     sync.WaitGroup
}

func newDispatcher(handle handleFunc) *dispatcher {
	return &dispatcher{
		handle: handle,
		chats:  map[int64]*chat{},
	}
}

func (d *dispatcher) dispatch(ctx context.Context, chatID int64, ev conversation.Event) {
	d.lck.Lock()
	defer d.lck.Unlock()
	c, ok := d.chats[chatID]
	if !ok {
		c = &chat{session: conversation.NewSession(chatID)}
		d.chats[chatID] = c
	}
	c.queue = append(c.queue, ev)
	if c.running {
		return
	}
	c.running = true
	d.wg.Add(1)
	go d.drain(ctx, chatID, c)
}

func (d *dispatcher) drain(ctx context.Context, chatID int64, c *chat) {
	defer d.wg.Done()
	for {
		d.lck.Lock()
		if len(c.queue) == 0 {
			c.running = false
			// Finished conversations are forgotten
			if !c.session.State.Active() {
				delete(d.chats, chatID)
			}
			d.lck.Unlock()
			return
		}
		ev := c.queue[0]
		c.queue = c.queue[1:]
		d.lck.Unlock()

		d.handle(ctx, c.session, ev)
	}
}

// active returns the number of chats with a conversation in progress.
func (d *dispatcher) active() int {
	d.lck.Lock()
	defer d.lck.Unlock()
	return len(d.chats)
}

// wait blocks until every queued event has been handled.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
