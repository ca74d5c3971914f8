package service

import "time"

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock всегда возвращает одно и то же время. Используется в тестах.
type FixedClock time.Time

// Now возвращает зафиксированное время
func (c FixedClock) Now() time.Time { return time.Time(c) }
