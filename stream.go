// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

// PlaybackStream accepts audio bytes and forwards them as data frames
// tagged with the stream's server-assigned channel index. The index
// is fixed for the stream's lifetime.
type PlaybackStream struct {
	index     uint32
	sinkInput uint32
	missing   uint32
	broker    *Broker
}

// Index returns the server-assigned stream index, which doubles as
// the channel of the stream's data frames.
func (s *PlaybackStream) Index() uint32 {
	return s.index
}

// SinkInput returns the index of the sink input backing the stream.
func (s *PlaybackStream) SinkInput() uint32 {
	return s.sinkInput
}

// Missing returns the byte count the server asked for when the stream
// was created. Callers may use it to size their first write.
func (s *PlaybackStream) Missing() uint32 {
	return s.missing
}

// Write queues p as one data frame. It returns once the frame is
// accepted into the outbound queue, not once the server has played
// it; pacing is the caller's job. When the queue is full the write
// fails with ErrQueueFull and no data is taken.
func (s *PlaybackStream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := s.broker.SendFrame(dataFrame(s.index, p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
