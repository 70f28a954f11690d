package board

// Input is the create-form draft with its inline error.
type Input struct {
	Text  string
	Error string
	seq   uint64
}

// Seq identifies the latest draft revision.
func (in Input) Seq() uint64 {
	return in.seq
}

func (in *Input) set(text string) uint64 {
	in.Text = text
	in.seq++
	return in.seq
}

// settle runs live validation if seq is still the latest revision.
func (in *Input) settle(seq uint64) bool {
	if seq != in.seq {
		return false
	}
	in.Error = errText(LiveValidate(in.Text))
	return true
}

func (in *Input) reset() {
	in.Text = ""
	in.Error = ""
	in.seq++
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
