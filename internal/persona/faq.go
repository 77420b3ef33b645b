package persona

// defaultFAQ is the built-in corpus used when no FAQ_PATH is configured.
const defaultFAQ = `
Arogga Cash
What is arogga cash?
This is a virtual wallet to store arogga Cash in your account.

How do I check my arogga cash balance?
You can check your arogga cash in Account screen.

When will the arogga money expire?
Any arogga Cash deposited in your arogga wallet through returns will never expire. At times, our marketing team may deposit promotional cash which will have an expiry that is communicated to you via an SMS.

Can I add money to my arogga cash?
No, you are unable to transfer or add money to your arogga cash.

How can I redeem my arogga cash?
If you have any money in your arogga cash, it will be automatically deducted from your next order amount and you will only have to pay for the balance amount (if any).

Can I transfer money from my arogga cash to the bank account?
No, you are unable to transfer money from your arogga cash to the bank account.

How much arogga money can I redeem in an order?
There is no limit for redemption of arogga cash

Payment Options
What payment methods does Arogga accept?
Arogga offers both Cash on Delivery (COD) and online payment options. Online payment methods include bKash, Nagad, and credit/debit cards. Additionally, Arogga offers an "Arogga Cash" virtual wallet where you can accumulate cashback that will be automatically deducted from future orders.

Can I pay cash when my order is delivered?
Yes, Arogga offers Cash on Delivery (COD) option where customers can pay for their order in cash when it's delivered.

Promotions
How do I apply a coupon code on my order?
You can apply a coupon on the cart screen while placing an order. If you are getting a message that the coupon code has failed to apply, it may be because you are not eligible for the offer.

Return
How does Arogga's return policy work?
Arogga offers a flexible return policy for items ordered with us. Under this policy, unopened and unused items must be returned within 7 days from the date of delivery. The return window will be listed in the returns section of the order, once delivered.

Do you sell medicine strips in full or it can be single units too?
We sell in single units to give customers flexibility in selecting specific amounts of medicine required. We provide single units of medicine as our pharmacist can cut strips.

I have broken the seal, can I return it?
No, you can not return any items with a broken seal.

Can I return medicine that is partially consumed?
No, you cannot return partially consumed items. Only unopened items that have not been used can be returned.
`
