// Package slots хранит состояние магазина в именованных слотах SlotStore
// в JSON-формате, совместимом с исходной витриной.
package slots

const (
	// KeyCart — слот корзины: [{"id":int,"qty":int}].
	KeyCart = "cps_cart_v1"
	// KeyLastOrder — слот последнего заказа.
	KeyLastOrder = "lastOrder"
	// KeyAccounts — слот учётных записей.
	KeyAccounts = "cps_users"
	// KeySession — слот текущей сессии.
	KeySession = "cps_loggedIn"
)
