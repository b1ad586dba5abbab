package table

// Observer receives a callback after every successful mutation, with the
// affected row id and copies of the prior and new cells. An index layer can
// use it to stay consistent incrementally instead of rescanning the table.
//
// Observers are invoked synchronously while the table lock is held; they
// must not call back into the table.
type Observer interface {
	RowAdded(id RowID, row Row)
	RowUpdated(id RowID, old, new Row)
	RowDeleted(id RowID, old Row)
}

func (t *Table) notifyAdded(row Row) {
	for _, obs := range t.observers {
		obs.RowAdded(row.ID, row.clone())
	}
}

func (t *Table) notifyUpdated(old, new Row) {
	for _, obs := range t.observers {
		obs.RowUpdated(new.ID, old.clone(), new.clone())
	}
}

func (t *Table) notifyDeleted(old Row) {
	for _, obs := range t.observers {
		obs.RowDeleted(old.ID, old.clone())
	}
}
