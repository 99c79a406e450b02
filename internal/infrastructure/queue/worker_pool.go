package queue

import (
	"context"
	"sync"
)

type WorkerPool struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWorkerPool(workerCount int, transport Transport, dispatcher *Dispatcher) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:         i,
			Transport:  transport,
			Dispatcher: dispatcher,
			Wg:         &pool.wg,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	return pool
}

func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
